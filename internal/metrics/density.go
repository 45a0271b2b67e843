package metrics

import "github.com/san-kum/sphfluid/internal/sph"

// MeanDensity averages particle density over every observed particle-frame.
type MeanDensity struct {
	name    string
	sum     float64
	samples int
}

func NewMeanDensity() *MeanDensity {
	return &MeanDensity{
		name: "mean_density",
	}
}

func (d *MeanDensity) Name() string {
	return d.name
}

func (d *MeanDensity) Observe(ps []*sph.Particle, frame int) {
	for _, p := range ps {
		d.sum += p.Density
	}
	d.samples += len(ps)
}

func (d *MeanDensity) Value() float64 {
	if d.samples == 0 {
		return 0
	}
	return d.sum / float64(d.samples)
}

func (d *MeanDensity) Reset() {
	d.sum = 0
	d.samples = 0
}
