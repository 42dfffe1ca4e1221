package glyph

// Skeletonize thins every non-zero region of src to a one-pixel-wide curve
// using Zhang-Suen iterations. The result keeps the input polarity: skeleton
// pixels are 255 and everything else 0. Pixels outside the raster count as 0.
func Skeletonize(src *Mask) *Mask {
	rows, cols := src.Rows, src.Cols
	fg := make([]bool, rows*cols)
	for i, v := range src.Pix {
		fg[i] = v != 0
	}

	at := func(y, x int) bool {
		if y < 0 || y >= rows || x < 0 || x >= cols {
			return false
		}
		return fg[y*cols+x]
	}

	var remove []int
	for {
		changed := false
		for pass := 0; pass < 2; pass++ {
			remove = remove[:0]
			for y := 0; y < rows; y++ {
				for x := 0; x < cols; x++ {
					if !fg[y*cols+x] {
						continue
					}
					// P2..P9 clockwise starting north.
					n := [8]bool{
						at(y-1, x), at(y-1, x+1), at(y, x+1), at(y+1, x+1),
						at(y+1, x), at(y+1, x-1), at(y, x-1), at(y-1, x-1),
					}
					b := 0
					for _, v := range n {
						if v {
							b++
						}
					}
					if b < 2 || b > 6 {
						continue
					}
					a := 0
					for i := 0; i < 8; i++ {
						if !n[i] && n[(i+1)%8] {
							a++
						}
					}
					if a != 1 {
						continue
					}
					p2, p4, p6, p8 := n[0], n[2], n[4], n[6]
					if pass == 0 {
						if p2 && p4 && p6 || p4 && p6 && p8 {
							continue
						}
					} else {
						if p2 && p4 && p8 || p2 && p6 && p8 {
							continue
						}
					}
					remove = append(remove, y*cols+x)
				}
			}
			for _, i := range remove {
				fg[i] = false
			}
			if len(remove) > 0 {
				changed = true
			}
		}
		if !changed {
			break
		}
	}

	out := &Mask{Rows: rows, Cols: cols, Pix: make([]uint8, rows*cols)}
	for i, v := range fg {
		if v {
			out.Pix[i] = 255
		}
	}
	return out
}
