package hull

// FaceValues maps internal face index to canonical face value. Opposite
// faces sum to 21. Regenerate together with SpinAngles.
var FaceValues = []int{
	1, 2, 3, 4, 5, 6, 7, 8, 9, 10,
	17, 18, 19, 20, 16, 12, 11, 15, 14, 13,
}

// SpinAngles is the per-value turn about world up (radians) that prints the
// numeral upright for the viewer once its face is aligned up.
// Generated by cmd/calibrate.
var SpinAngles = map[int]float64{
	1:  0.1263401275710394,
	2:  -1.0471975511965979,
	3:  -2.0943951023931953,
	4:  3.0152525260187537,
	5:  1.5707963267948966,
	6:  -0.1263401275710394,
	7:  0.8884626037117821,
	8:  2.6179938779914944,
	9:  -1.9356601549083798,
	10: -0.9208574236255584,
	11: -1.697136454365936,
	12: -2.9828577061049777,
	13: 2.6179938779914944,
	14: 1.9356601549083798,
	15: 0.6499389031693382,
	16: 1.5707963267948966,
	17: 1.697136454365936,
	18: 2.0943951023931953,
	19: 1.0471975511965979,
	20: 1.4444561992238574,
}
