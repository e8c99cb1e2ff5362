// Package features parses raw untyped request payloads into typed,
// defaulted feature records. Extraction never fails: every field has a
// safe default and a tolerant coercion rule.
package features

import (
	"math"
	"strconv"
	"strings"

	"github.com/Arya2160/OncoSense/internal/domain"
)

// Field keys accepted in request payloads. Aliases cover the two field
// naming generations of the browser form.
const (
	keyAge        = "age"
	keyPulse      = "pulse"
	keyPulseAlias = "pulse_bpm"
	keyFever      = "fever"
	keyTemp       = "fever_temp_c"
	keyTempAlias  = "temperature_c"
	keyPallor     = "pallor"
	keyBruises    = "bruises"
	keyBruisesAlt = "bruising"
	keyWeightLoss = "weight_loss"
	keyFatigue    = "fatigue"
	keyNightSw    = "night_sweats"
	keyInfections = "frequent_infections"
	keyBonePain   = "bone_pain"
)

// Truthy and falsy string allow-lists for the permissive boolean parser.
// Includes the localized affirmatives the legacy form submitted.
var (
	truthyStrings = map[string]bool{
		"1": true, "true": true, "t": true, "yes": true, "y": true,
		"on": true, "haan": true, "ha": true, "si": true, "oui": true,
		"ja": true,
	}
	falsyStrings = map[string]bool{
		"0": true, "false": true, "f": true, "no": true, "n": true,
		"off": true, "nahi": true, "nahin": true, "nein": true,
		"non": true,
	}
)

// Extract builds a FeatureRecord from a raw JSON object. Unparseable
// values fall back to the field default; the returned count reports how
// many fallbacks occurred, for observability only.
func Extract(raw map[string]any) (domain.FeatureRecord, int) {
	fallbacks := 0

	f := domain.FeatureRecord{
		Age:      intField(raw, keyAge, domain.DefaultAge, &fallbacks),
		PulseBPM: intFieldAliased(raw, keyPulse, keyPulseAlias, domain.DefaultPulse, &fallbacks),
	}
	if f.Age < 0 {
		f.Age = 0
	}

	if temp, ok := floatFieldAliased(raw, keyTemp, keyTempAlias, &fallbacks); ok {
		f.TempC = &temp
	}

	f.Pallor = boolField(raw, keyPallor, &fallbacks)
	f.Bruising = boolFieldAliased(raw, keyBruises, keyBruisesAlt, &fallbacks)
	f.WeightLoss = boolField(raw, keyWeightLoss, &fallbacks)
	f.Fatigue = boolField(raw, keyFatigue, &fallbacks)
	f.NightSweats = boolField(raw, keyNightSw, &fallbacks)
	f.FrequentInfections = boolField(raw, keyInfections, &fallbacks)
	f.BonePain = boolField(raw, keyBonePain, &fallbacks)

	// An explicit fever flag always wins over the temperature rule.
	if v, present := raw[keyFever]; present {
		fever, ok := ParseBool(v)
		if !ok {
			fallbacks++
		}
		f.Fever = fever
		f.FeverExplicit = ok
	}
	if !f.FeverExplicit && f.HasTemp() && *f.TempC >= domain.FeverTempThresholdC {
		f.Fever = true
	}

	return f, fallbacks
}

// ParseBool coerces an arbitrary JSON value to a boolean using the
// allow-lists above. The second return reports whether the value was
// recognized; callers fall back to the field default when it is false.
func ParseBool(v any) (value, ok bool) {
	switch t := v.(type) {
	case bool:
		return t, true
	case float64:
		return t != 0, true
	case int:
		return t != 0, true
	case string:
		s := strings.ToLower(strings.TrimSpace(t))
		if truthyStrings[s] {
			return true, true
		}
		if falsyStrings[s] {
			return false, true
		}
		// Numeric strings like "1.0" are still affirmative when nonzero.
		if n, err := strconv.ParseFloat(s, 64); err == nil {
			return n != 0, true
		}
	}
	return false, false
}

// ParseFloat coerces an arbitrary JSON value to a float64.
func ParseFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, !math.IsNaN(t) && !math.IsInf(t, 0)
	case int:
		return float64(t), true
	case string:
		n, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
			return 0, false
		}
		return n, true
	case bool:
		if t {
			return 1, true
		}
		return 0, true
	}
	return 0, false
}

func boolField(raw map[string]any, key string, fallbacks *int) bool {
	v, present := raw[key]
	if !present {
		return false
	}
	value, ok := ParseBool(v)
	if !ok {
		*fallbacks++
		return false
	}
	return value
}

func boolFieldAliased(raw map[string]any, key, alias string, fallbacks *int) bool {
	if _, present := raw[key]; present {
		return boolField(raw, key, fallbacks)
	}
	return boolField(raw, alias, fallbacks)
}

func intField(raw map[string]any, key string, def int, fallbacks *int) int {
	v, present := raw[key]
	if !present {
		return def
	}
	n, ok := ParseFloat(v)
	if !ok {
		*fallbacks++
		return def
	}
	return int(n)
}

func intFieldAliased(raw map[string]any, key, alias string, def int, fallbacks *int) int {
	if _, present := raw[key]; present {
		return intField(raw, key, def, fallbacks)
	}
	return intField(raw, alias, def, fallbacks)
}

// floatFieldAliased returns the parsed value and whether one was supplied.
// Absent and unparseable both mean "not measured".
func floatFieldAliased(raw map[string]any, key, alias string, fallbacks *int) (float64, bool) {
	v, present := raw[key]
	if !present {
		v, present = raw[alias]
	}
	if !present {
		return 0, false
	}
	n, ok := ParseFloat(v)
	if !ok {
		*fallbacks++
		return 0, false
	}
	return n, true
}
