// Package chart turns sensor history and order statistics into
// standalone HTML charts.
package chart

import "github.com/Cloudsky01/storeadmin/pkg/models"

// Metric is one plottable field of a sensor reading
type Metric struct {
	Key   string
	Label string
	Unit  string
	Group string
	Value func(models.SensorReading) float64
}

const (
	GroupClimate   = "Nhiệt độ & độ ẩm"
	GroupSoil      = "pH & EC"
	GroupNutrients = "Dinh dưỡng (N-P-K)"
)

// Metrics lists every sensor metric in display order
var Metrics = []Metric{
	{"soilTemperature", "Nhiệt độ đất", "°C", GroupClimate, func(r models.SensorReading) float64 { return r.SoilTemperature }},
	{"soilMoisture", "Độ ẩm đất", "%", GroupClimate, func(r models.SensorReading) float64 { return r.SoilMoisture }},
	{"airTemperature", "Nhiệt độ không khí", "°C", GroupClimate, func(r models.SensorReading) float64 { return r.AirTemperature }},
	{"airHumidity", "Độ ẩm không khí", "%", GroupClimate, func(r models.SensorReading) float64 { return r.AirHumidity }},
	{"soilPh", "pH đất", "", GroupSoil, func(r models.SensorReading) float64 { return r.SoilPH }},
	{"soilEc", "EC đất", "mS/cm", GroupSoil, func(r models.SensorReading) float64 { return r.SoilEC }},
	{"nito", "Nitơ (N)", "mg/kg", GroupNutrients, func(r models.SensorReading) float64 { return r.Nitrogen }},
	{"photpho", "Phốt pho (P)", "mg/kg", GroupNutrients, func(r models.SensorReading) float64 { return r.Phosphorus }},
	{"kali", "Kali (K)", "mg/kg", GroupNutrients, func(r models.SensorReading) float64 { return r.Potassium }},
}

// Series extracts one metric across readings
func (m Metric) Series(readings []models.SensorReading) []float64 {
	out := make([]float64, len(readings))
	for i, r := range readings {
		out[i] = m.Value(r)
	}
	return out
}

// Groups returns metric group names in display order
func Groups() []string {
	return []string{GroupClimate, GroupSoil, GroupNutrients}
}
