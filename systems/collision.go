package systems

// Circle is a disk in arena coordinates.
type Circle struct {
	X, Y, R float32
}

// Rect is an axis-aligned rectangle anchored at its top-left corner.
type Rect struct {
	X, Y, W, H float32
}

// CircleIntersectsCircle reports whether two disks touch or overlap.
// A gap smaller than tolerance still counts as contact.
func CircleIntersectsCircle(a, b Circle, tolerance float32) bool {
	d := distance(a.X, a.Y, b.X, b.Y)
	return d-a.R-b.R < tolerance
}

// RectIntersectsCircle reports whether the disk overlaps the rectangle,
// using the distance from the circle center to the closest point of the rectangle.
func RectIntersectsCircle(r Rect, c Circle) bool {
	halfW := r.W / 2
	halfH := r.H / 2
	distX := absf(c.X - (r.X + halfW))
	distY := absf(c.Y - (r.Y + halfH))

	if distX > halfW+c.R || distY > halfH+c.R {
		return false
	}
	if distX <= halfW || distY <= halfH {
		return true
	}

	// Corner region
	dx := distX - halfW
	dy := distY - halfH
	return dx*dx+dy*dy <= c.R*c.R
}

// OutsideBounds reports whether the rectangle has fully left [0,w]x[0,h] on any side.
func (r Rect) OutsideBounds(w, h float32) bool {
	return r.X+r.W < 0 || r.X > w || r.Y+r.H < 0 || r.Y > h
}

// Bounce reflects the velocity on each axis where the disk extends past the arena.
func Bounce(c Circle, vx, vy, w, h float32) (float32, float32) {
	if c.X+c.R > w || c.X-c.R < 0 {
		vx = -vx
	}
	if c.Y+c.R > h || c.Y-c.R < 0 {
		vy = -vy
	}
	return vx, vy
}

// ContainDisk moves a disk center so the whole disk lies inside the arena.
// A disk wider than the arena is centered on that axis.
func ContainDisk(x, y, r, w, h float32) (float32, float32) {
	return containAxis(x, r, w), containAxis(y, r, h)
}

func containAxis(v, r, size float32) float32 {
	if 2*r >= size {
		return size / 2
	}
	if v+r > size {
		v = size - r
	}
	if v-r < 0 {
		v = r
	}
	return v
}

// ShotDirection returns the per-axis projectile velocity for a shooter moving at (vx, vy).
// Each axis follows the sign of the shooter's velocity; a zero component fires in the positive direction.
func ShotDirection(vx, vy, speed float32) (float32, float32) {
	return signOrPositive(vx) * speed, signOrPositive(vy) * speed
}

func signOrPositive(v float32) float32 {
	if v < 0 {
		return -1
	}
	return 1
}
