package core

// Vec3 is a position in graph space.
type Vec3 struct {
	X, Y, Z float32
}

// Lerp interpolates componentwise between a and b. The weighted form keeps
// s == 0 and s == 1 exact; the conversions stop the compiler from fusing the
// products into a multiply-add.
func Lerp(a, b Vec3, s float32) Vec3 {
	r := 1 - s
	return Vec3{
		X: float32(a.X*r) + float32(b.X*s),
		Y: float32(a.Y*r) + float32(b.Y*s),
		Z: float32(a.Z*r) + float32(b.Z*s),
	}
}
