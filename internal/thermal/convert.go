package thermal

// Convert maps a 12-bit ADC sample to a calibrated temperature in 0.1°C
// units: raw 0 reads -40.0°C, raw 4095 reads 125.0°C. Samples above 4095
// saturate to 4095 rather than failing, so the safety chain always receives
// a temperature (pegged high) instead of a silent zero.
func Convert(raw uint16) TempX10 {
	if raw > RawMax {
		raw = RawMax
	}

	// celsius = -40 + raw * (165 / 4095)
	// x10: temp = -400 + raw * (1650 / 4095), rounded to nearest
	scaled := (int32(raw)*1650 + 2047) / 4095
	t := -400 + scaled

	if t < int32(TempMin) {
		t = int32(TempMin)
	}
	if t > int32(TempMax) {
		t = int32(TempMax)
	}
	return TempX10(t)
}
