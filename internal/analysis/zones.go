package analysis

import "math"

// PaceRange is a [min, max] pace band in seconds per kilometer.
// Min is always the faster (smaller) bound.
type PaceRange struct {
	Min float64
	Max float64
}

// Contains reports whether pace falls inside the range, inclusive.
func (r PaceRange) Contains(pace float64) bool {
	return pace >= r.Min && pace <= r.Max
}

// Shift returns the range moved by delta seconds per kilometer.
func (r PaceRange) Shift(delta float64) PaceRange {
	return PaceRange{Min: r.Min + delta, Max: r.Max + delta}
}

// ZoneSet holds the full set of training pace zones for a fitness index.
// Zones are strictly ordered repetition < interval < threshold < marathon
// < easy in seconds per kilometer (faster is smaller).
type ZoneSet struct {
	FitnessIndex float64
	Easy         PaceRange
	Marathon     float64 // single pace, not a range
	Threshold    PaceRange
	Interval     PaceRange
	Repetition   PaceRange
}

// zoneEntry is one row of the training-pace lookup table.
// All paces are in seconds per kilometer.
type zoneEntry struct {
	Index      int
	EasyMin    float64
	EasyMax    float64
	Marathon   float64
	Threshold  float64
	Interval   float64
	Repetition float64
}

// Supported table range. Indices outside it are clamped.
const (
	minTableIndex = 30
	maxTableIndex = 60
)

// Quality paces are prescribed as a band of this half-width around the
// table pace.
const qualityBandSeconds = 4

// zoneTable encodes Daniels-style training paces per integer fitness
// index. Values are a published reference table, not a derived curve.
var zoneTable = []zoneEntry{
	{30, 447, 494, 423, 384, 354, 332},
	{31, 437, 483, 413, 375, 346, 324},
	{32, 427, 473, 403, 366, 338, 317},
	{33, 416, 462, 394, 358, 329, 309},
	{34, 406, 452, 384, 349, 321, 302},
	{35, 396, 441, 374, 340, 313, 294},
	{36, 388, 432, 366, 333, 307, 288},
	{37, 380, 424, 358, 326, 301, 282},
	{38, 372, 415, 350, 320, 294, 276},
	{39, 364, 407, 342, 313, 288, 270},
	{40, 356, 398, 334, 306, 282, 264},
	{41, 349, 391, 327, 300, 277, 259},
	{42, 343, 384, 320, 295, 272, 254},
	{43, 336, 377, 314, 289, 266, 250},
	{44, 330, 370, 307, 284, 261, 245},
	{45, 323, 363, 300, 278, 256, 240},
	{46, 318, 357, 295, 273, 252, 236},
	{47, 312, 351, 290, 269, 248, 232},
	{48, 307, 345, 285, 264, 243, 228},
	{49, 301, 339, 280, 260, 239, 224},
	{50, 296, 333, 275, 255, 235, 220},
	{51, 292, 328, 271, 251, 231, 217},
	{52, 287, 323, 267, 247, 228, 213},
	{53, 283, 318, 262, 244, 224, 210},
	{54, 278, 313, 258, 240, 221, 206},
	{55, 274, 308, 254, 236, 217, 203},
	{56, 270, 304, 250, 233, 214, 200},
	{57, 266, 300, 247, 230, 211, 198},
	{58, 263, 295, 243, 226, 209, 195},
	{59, 259, 291, 240, 223, 206, 193},
	{60, 255, 287, 236, 220, 203, 190},
}

// ZonesFromIndex returns the pace zones for a fitness index. The index is
// clamped to the supported [30, 60] range and looked up by nearest
// integer. Identical indices always yield identical zones.
func ZonesFromIndex(index float64) ZoneSet {
	clamped := index
	if clamped < minTableIndex {
		clamped = minTableIndex
	}
	if clamped > maxTableIndex {
		clamped = maxTableIndex
	}

	row := zoneTable[int(math.Round(clamped))-minTableIndex]

	return ZoneSet{
		FitnessIndex: index,
		Easy:         PaceRange{Min: row.EasyMin, Max: row.EasyMax},
		Marathon:     row.Marathon,
		Threshold:    PaceRange{Min: row.Threshold - qualityBandSeconds, Max: row.Threshold + qualityBandSeconds},
		Interval:     PaceRange{Min: row.Interval - qualityBandSeconds, Max: row.Interval + qualityBandSeconds},
		Repetition:   PaceRange{Min: row.Repetition - qualityBandSeconds, Max: row.Repetition + qualityBandSeconds},
	}
}
