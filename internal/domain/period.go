package domain

// LoadPeriod is one of the three annual demand buckets used instead of
// hourly dispatch.
type LoadPeriod string

const (
	PeriodOffPeak  LoadPeriod = "off_peak"
	PeriodShoulder LoadPeriod = "shoulder"
	PeriodPeak     LoadPeriod = "peak"
)

// AllPeriods lists the load periods in canonical order.
var AllPeriods = []LoadPeriod{PeriodOffPeak, PeriodShoulder, PeriodPeak}

// HoursPerYear is the total annual hour count the period hours must sum to.
const HoursPerYear = 8760.0

// PeriodHours maps each load period to its fixed annual hour count.
// Off-peak 5000h + shoulder 2500h + peak 1260h = 8760h.
type PeriodHours struct {
	OffPeak  float64
	Shoulder float64
	Peak     float64
}

// DefaultPeriodHours returns the standard annual hour split.
func DefaultPeriodHours() PeriodHours {
	return PeriodHours{OffPeak: 5000, Shoulder: 2500, Peak: 1260}
}

// For returns the hour count for a single period.
func (h PeriodHours) For(p LoadPeriod) float64 {
	switch p {
	case PeriodOffPeak:
		return h.OffPeak
	case PeriodShoulder:
		return h.Shoulder
	case PeriodPeak:
		return h.Peak
	default:
		return 0
	}
}

// Total returns the sum of all period hours.
func (h PeriodHours) Total() float64 {
	return h.OffPeak + h.Shoulder + h.Peak
}

// PeriodValues holds one float64 per load period (demand MW, prices, ...).
type PeriodValues struct {
	OffPeak  float64
	Shoulder float64
	Peak     float64
}

// For returns the value for a single period.
func (v PeriodValues) For(p LoadPeriod) float64 {
	switch p {
	case PeriodOffPeak:
		return v.OffPeak
	case PeriodShoulder:
		return v.Shoulder
	case PeriodPeak:
		return v.Peak
	default:
		return 0
	}
}
