package syllabus

func init() {
	t = buildTable(primary5)
}

var primary5 = []SubStrand{
	{
		Name:   "Numbers up to 10 million",
		Topics: []string{"reading and writing numbers in numerals and in words"},
	},
	{
		Name: "Four Operations",
		Topics: []string{
			"multiplying and dividing by 10, 100, 1000 and their multiples without calculator",
			"order of operations without calculator",
			"use of brackets without calculator",
		},
	},
	{
		Name: "Fractions",
		Topics: []string{
			"dividing a whole number by a whole number with quotient as a fraction",
			"expressing fractions as decimals",
			"adding and subtracting mixed numbers",
			"multiplying a proper/improper fraction and a whole number without calculator",
			"multiplying a proper fraction and a proper/improper fraction",
			"multiplying two improper fractions",
			"multiplying a mixed number and a whole number",
		},
	},
	{
		Name: "Decimals",
		Topics: []string{
			"multiplying and dividing decimals (up to 3 decimal places) by 10, 100, 1000 and their multiples without calculator",
			"converting a measurement from a smaller unit to a larger unit in decimal form, and vice versa",
			"kilometres and metres",
			"metres and centimetres",
			"kilograms and grams",
			"litres and millilitres",
		},
	},
	{
		Name: "Percentage",
		Topics: []string{
			"expressing a part of a whole as a percentage",
			"use of %",
			"finding a percentage part of a whole",
			"finding discount, GST and annual interest",
		},
	},
	{
		Name: "Rate",
		Topics: []string{
			"rate as the amount of a quantity per unit of another quantity",
			"finding rate, total amount or number of units given the other two quantities",
		},
	},
	{
		Name: "Area and Volume",
		Topics: []string{
			"concepts of base and height of a triangle",
			"area of triangle",
			"finding the area of composite figures made up of rectangles, squares and triangles",
			"building solids with unit cubes",
			"measuring volume in cubic units, cm3/m3",
			"drawing cubes and cuboids on isometric grid",
			"volume of a cube/cuboid",
			"finding the volume of liquid in a rectangular tank",
			"relationship between l (or ml) with cm3",
		},
	},
	{
		Name: "Geometry",
		Topics: []string{
			"angles on a straight line",
			"angles at a point",
			"vertically opposite angles",
			"finding unknown angles",
			"properties of isosceles triangle",
			"properties of equilateral triangle",
			"properties of right-angled triangle",
			"angle sum of a triangle",
			"finding unknown angles without additional construction of lines",
			"properties of parallelogram, rhombus, trapezium",
		},
	},
}
