package lattice

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
)

// WriteXYZ writes sys in the extended XYZ layout read by AViz: a count
// line, a comment line, then one "GB x y z ux uy uz" row per particle.
// Two-dimensional systems get a zero z component.
func WriteXYZ(w io.Writer, sys *System, comment string) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "%d\n%s\n", sys.Len(), comment)
	for i := range sys.Spins {
		bw.WriteString("GB")
		for _, v := range [][]float64{sys.Locations[i], sys.Spins[i]} {
			for d := range 3 {
				x := 0.0
				if d < len(v) {
					x = v[d]
				}
				bw.WriteByte(' ')
				bw.WriteString(strconv.FormatFloat(x, 'g', 10, 64))
			}
		}
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

// XYZRecorder writes a numbered XYZ file to Dir every time the selector
// keeps a sweep.
type XYZRecorder struct {
	Dir     string
	Written int
}

func NewXYZRecorder(dir string) (*XYZRecorder, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	return &XYZRecorder{Dir: dir}, nil
}

// Record writes sys unconditionally, for the starting configuration.
func (r *XYZRecorder) Record(sys *System, comment string) error {
	path := filepath.Join(r.Dir, fmt.Sprintf("lc%08d.xyz", r.Written))
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := WriteXYZ(f, sys, comment); err != nil {
		return err
	}
	r.Written++
	return f.Close()
}

func (r *XYZRecorder) OnStep(step Step, sys *System) error {
	if !step.Better {
		return nil
	}
	return r.Record(sys, fmt.Sprintf("step=%d T=%g E=%g", step.Index, step.Temperature, step.Energy))
}
