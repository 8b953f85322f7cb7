package models

import "strings"

// InstrumentKind is the closed set of upstream routing classes.
type InstrumentKind string

const (
	KindDomesticEquity InstrumentKind = "domestic_equity"
	KindBondYield      InstrumentKind = "bond_yield"
	KindFxPair         InstrumentKind = "fx_pair"
	KindGeneric        InstrumentKind = "generic"
)

// InstrumentKey is the classified form of a raw identifier. Classification
// is a pure function of the normalized text; the same input always yields
// the same key.
type InstrumentKey struct {
	Raw        string         `json:"raw"`
	Normalized string         `json:"normalized"`
	Kind       InstrumentKind `json:"kind"`
	Code       string         `json:"code"`
}

// Empty reports whether no instrument was supplied.
func (k InstrumentKey) Empty() bool { return k.Normalized == "" }

// Ten-year government yield symbols served by the aggregator source.
var bondYieldSymbols = map[string]struct{}{
	"KR10YT=RR": {},
	"JP10YT=XX": {},
}

// Currency pairs served by the aggregator source without a provider prefix.
var fxPairSymbols = map[string]struct{}{
	"USD/KRW": {},
	"JPY/KRW": {},
}

// Classify derives an InstrumentKey from raw user input. Rules apply in
// priority order: blank input, 6-digit local code, .KS/.KQ suffix, the bond
// yield allow-list, the fx pair allow-list, then generic. Classification is
// syntactic only; whether the instrument exists upstream is a fetch concern.
func Classify(raw string) InstrumentKey {
	norm := strings.ToUpper(strings.TrimSpace(raw))
	key := InstrumentKey{Raw: raw, Normalized: norm}

	switch {
	case norm == "":
		key.Kind = KindGeneric
	case isLocalCode(norm):
		key.Kind = KindDomesticEquity
		key.Code = norm
	case strings.HasSuffix(norm, ".KS") || strings.HasSuffix(norm, ".KQ"):
		// Strip at the first dot and re-classify so 005930.KS and 005930
		// carry the same effective code.
		prefix := norm
		if i := strings.IndexByte(norm, '.'); i >= 0 {
			prefix = norm[:i]
		}
		key.Kind = KindDomesticEquity
		key.Code = Classify(prefix).Code
	case isBondYield(norm):
		key.Kind = KindBondYield
		key.Code = norm
	case isFxPair(norm):
		key.Kind = KindFxPair
		key.Code = norm
	default:
		key.Kind = KindGeneric
		key.Code = norm
	}
	return key
}

// isLocalCode reports whether s is exactly six ASCII digits.
func isLocalCode(s string) bool {
	if len(s) != 6 {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func isBondYield(s string) bool {
	_, ok := bondYieldSymbols[s]
	return ok
}

func isFxPair(s string) bool {
	_, ok := fxPairSymbols[s]
	return ok
}
