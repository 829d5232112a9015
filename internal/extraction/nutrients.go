package extraction

import "strings"

// FeatureSlot is a named input position of the nutrient regression model.
// The slot identifiers and their order are part of the trained-model
// contract and must not change.
type FeatureSlot string

// NutrientSlots lists every feature slot of the nutrient model, in model
// input order.
var NutrientSlots = []FeatureSlot{
	"Value_0", "Value_2", "Value_3", "Value_4", "Value_5", "Value_6",
	"Value_8", "Value_9", "Value_10", "Value_11", "Value_13", "Value_15",
	"Value_16", "Value_17",
}

// slotLabels maps each slot to the label printed in lab reports. Ordered so
// the first containment match wins deterministically.
var slotLabels = []struct {
	slot  FeatureSlot
	label string
}{
	{"Value_0", "чэл 3x nrc"},
	{"Value_2", "сп"},
	{"Value_3", "крахмал"},
	{"Value_4", "rd крахмал 3x уровень 1"},
	{"Value_5", "сахар"},
	{"Value_6", "нсу"},
	{"Value_8", "нву"},
	{"Value_9", "andfom"},
	{"Value_10", "cho b3 pdndf"},
	{"Value_11", "растворимая клетчатка"},
	{"Value_13", "andfom фуража"},
	{"Value_15", "pendf"},
	{"Value_16", "cho b3 медленная фракция"},
	{"Value_17", "cho c undf"},
}

// NutrientFeatures is a dense vector over every model feature slot.
// Defaulted lists the slots no lab reading populated; those stay at zero,
// which the model accepts but which weakens the prediction.
type NutrientFeatures struct {
	Values    map[FeatureSlot]float64
	Defaulted []FeatureSlot
}

// Degraded reports whether any slot fell back to its zero default.
func (nf NutrientFeatures) Degraded() bool {
	return len(nf.Defaulted) > 0
}

// Vector returns the slot values in model input order.
func (nf NutrientFeatures) Vector() []float64 {
	out := make([]float64, len(NutrientSlots))
	for i, slot := range NutrientSlots {
		out[i] = nf.Values[slot]
	}
	return out
}

// MapNutrients resolves free-text lab readings onto the model's fixed
// feature slots. Per reading: exact lookup on the normalized label first,
// then containment of each known label within the reading, first match
// wins. Readings matching no slot are dropped — lab reports routinely include
// fields the model does not use. Every defined slot is always present in
// the result, defaulting to 0.0.
func MapNutrients(readings map[string]float64) NutrientFeatures {
	values := make(map[FeatureSlot]float64, len(NutrientSlots))
	matched := make(map[FeatureSlot]bool, len(NutrientSlots))
	for _, slot := range NutrientSlots {
		values[slot] = 0
	}

	for label, value := range readings {
		if slot, ok := resolveSlot(Normalize(label)); ok {
			values[slot] = value
			matched[slot] = true
		}
	}

	var defaulted []FeatureSlot
	for _, slot := range NutrientSlots {
		if !matched[slot] {
			defaulted = append(defaulted, slot)
		}
	}
	return NutrientFeatures{Values: values, Defaulted: defaulted}
}

func resolveSlot(label string) (FeatureSlot, bool) {
	for _, e := range slotLabels {
		if label == e.label {
			return e.slot, true
		}
	}
	for _, e := range slotLabels {
		if strings.Contains(label, e.label) {
			return e.slot, true
		}
	}
	return "", false
}
