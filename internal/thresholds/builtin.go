package thresholds

import "envrisk/internal/domain"

// Built-in reference thresholds per medium, used whenever no country or
// phase specific entry overrides them. Bounds follow WHO guideline values
// and common national surface water / soil standards.

func spec(medium domain.Medium, param string, kind domain.ThresholdKind, min, max, target *float64, unit string) domain.ThresholdSpec {
	return domain.ThresholdSpec{
		Parameter: param,
		Medium:    medium,
		Kind:      kind,
		Min:       min,
		Max:       max,
		Target:    target,
		Unit:      unit,
	}
}

func maxSpec(medium domain.Medium, param string, max float64, unit string) domain.ThresholdSpec {
	return spec(medium, param, domain.ThresholdMax, nil, domain.Float64(max), nil, unit)
}

func minSpec(medium domain.Medium, param string, min float64, unit string) domain.ThresholdSpec {
	return spec(medium, param, domain.ThresholdMin, domain.Float64(min), nil, nil, unit)
}

func rangeSpec(medium domain.Medium, param string, min, max float64, unit string) domain.ThresholdSpec {
	return spec(medium, param, domain.ThresholdRange, domain.Float64(min), domain.Float64(max), nil, unit)
}

func targetSpec(medium domain.Medium, param string, target float64, unit string) domain.ThresholdSpec {
	return spec(medium, param, domain.ThresholdTarget, nil, nil, domain.Float64(target), unit)
}

func builtinFor(medium domain.Medium, specs ...domain.ThresholdSpec) map[string]domain.ThresholdSpec {
	out := make(map[string]domain.ThresholdSpec, len(specs))
	for _, s := range specs {
		out[s.Parameter] = s
	}
	return out
}

var builtinSpecs = map[domain.Medium]map[string]domain.ThresholdSpec{
	domain.MediumWater: builtinFor(domain.MediumWater,
		rangeSpec(domain.MediumWater, "pH", 6.5, 8.5, ""),
		rangeSpec(domain.MediumWater, "Temperature", 15, 25, "°C"),
		maxSpec(domain.MediumWater, "Turbidity", 5, "NTU"),
		maxSpec(domain.MediumWater, "Conductivity", 1000, "µS/cm"),
		minSpec(domain.MediumWater, "Dissolved oxygen", 5, "mg/L"),
		maxSpec(domain.MediumWater, "BOD5", 5, "mg/L"),
		maxSpec(domain.MediumWater, "COD", 25, "mg/L"),
		maxSpec(domain.MediumWater, "Nitrates", 50, "mg/L"),
		maxSpec(domain.MediumWater, "Nitrites", 0.5, "mg/L"),
		maxSpec(domain.MediumWater, "Ammonia", 0.5, "mg/L"),
		maxSpec(domain.MediumWater, "Total phosphorus", 0.1, "mg/L"),
		maxSpec(domain.MediumWater, "Total nitrogen", 10, "mg/L"),
		maxSpec(domain.MediumWater, "Lead (Pb)", 0.01, "mg/L"),
		maxSpec(domain.MediumWater, "Cadmium (Cd)", 0.005, "mg/L"),
		maxSpec(domain.MediumWater, "Chromium (Cr)", 0.05, "mg/L"),
		maxSpec(domain.MediumWater, "Copper (Cu)", 2, "mg/L"),
		maxSpec(domain.MediumWater, "Zinc (Zn)", 3, "mg/L"),
		maxSpec(domain.MediumWater, "Nickel (Ni)", 0.07, "mg/L"),
		maxSpec(domain.MediumWater, "Mercury (Hg)", 0.001, "mg/L"),
		maxSpec(domain.MediumWater, "Arsenic (As)", 0.01, "mg/L"),
	),
	domain.MediumSoil: builtinFor(domain.MediumSoil,
		rangeSpec(domain.MediumSoil, "pH", 6.0, 8.0, ""),
		rangeSpec(domain.MediumSoil, "Organic matter", 2, 5, "%"),
		rangeSpec(domain.MediumSoil, "Organic carbon", 1, 3, "%"),
		maxSpec(domain.MediumSoil, "Lead (Pb)", 85, "mg/kg"),
		maxSpec(domain.MediumSoil, "Cadmium (Cd)", 1.4, "mg/kg"),
		maxSpec(domain.MediumSoil, "Chromium (Cr)", 100, "mg/kg"),
		maxSpec(domain.MediumSoil, "Copper (Cu)", 36, "mg/kg"),
		maxSpec(domain.MediumSoil, "Zinc (Zn)", 140, "mg/kg"),
		maxSpec(domain.MediumSoil, "Nickel (Ni)", 35, "mg/kg"),
		maxSpec(domain.MediumSoil, "Mercury (Hg)", 0.4, "mg/kg"),
		maxSpec(domain.MediumSoil, "Arsenic (As)", 12, "mg/kg"),
		maxSpec(domain.MediumSoil, "Hydrocarbons", 100, "mg/kg"),
	),
	domain.MediumAir: builtinFor(domain.MediumAir,
		maxSpec(domain.MediumAir, "PM10", 50, "µg/m³"),
		maxSpec(domain.MediumAir, "PM2.5", 25, "µg/m³"),
		maxSpec(domain.MediumAir, "SO2", 125, "µg/m³"),
		maxSpec(domain.MediumAir, "NO2", 40, "µg/m³"),
		maxSpec(domain.MediumAir, "NOx", 200, "µg/m³"),
		maxSpec(domain.MediumAir, "CO", 10, "mg/m³"),
		maxSpec(domain.MediumAir, "O3", 120, "µg/m³"),
		maxSpec(domain.MediumAir, "Total dust", 150, "µg/m³"),
	),
	domain.MediumBiological: builtinFor(domain.MediumBiological,
		minSpec(domain.MediumBiological, "Vegetation cover", 30, "%"),
		maxSpec(domain.MediumBiological, "Chlorophyll-a", 10, "µg/L"),
		targetSpec(domain.MediumBiological, "Shannon diversity index", 2.5, ""),
	),
	domain.MediumHuman: builtinFor(domain.MediumHuman,
		maxSpec(domain.MediumHuman, "Noise level", 65, "dB"),
		minSpec(domain.MediumHuman, "Distance to dwellings", 100, "m"),
		maxSpec(domain.MediumHuman, "Odour intensity", 3, ""),
	),
}

// BuiltinParameters lists the parameters carrying a built-in threshold for a
// medium. The order is unspecified.
func BuiltinParameters(medium domain.Medium) []string {
	names := make([]string, 0, len(builtinSpecs[medium]))
	for name := range builtinSpecs[medium] {
		names = append(names, name)
	}
	return names
}
