// SPDX-License-Identifier: GPL-2.0-only
// Source: github.com/go-lzma/lzma2

package lzma

import (
	"reflect"
	"testing"
)

func TestPreset_ClampsOutOfRangeLevels(t *testing.T) {
	if got, want := Preset(-5), Preset(0); !reflect.DeepEqual(got, want) {
		t.Fatalf("Preset(-5) = %+v, want Preset(0) = %+v", got, want)
	}
	if got, want := Preset(42), Preset(9); !reflect.DeepEqual(got, want) {
		t.Fatalf("Preset(42) = %+v, want Preset(9) = %+v", got, want)
	}
}

func TestPreset_StrategySplitsAtFour(t *testing.T) {
	for n := 0; n <= 3; n++ {
		opt := Preset(n)
		if opt.Mode != ModeFast {
			t.Errorf("Preset(%d).Mode = %v, want ModeFast", n, opt.Mode)
		}
		if opt.MatchFinder != MatchFinderHC4 {
			t.Errorf("Preset(%d).MatchFinder = %v, want MatchFinderHC4", n, opt.MatchFinder)
		}
	}
	for n := 4; n <= 9; n++ {
		opt := Preset(n)
		if opt.Mode != ModeNormal {
			t.Errorf("Preset(%d).Mode = %v, want ModeNormal", n, opt.Mode)
		}
		if opt.MatchFinder != MatchFinderBT4 {
			t.Errorf("Preset(%d).MatchFinder = %v, want MatchFinderBT4", n, opt.MatchFinder)
		}
	}
}

func TestEncoderOptions_Validate(t *testing.T) {
	tests := []struct {
		name    string
		opt     EncoderOptions
		wantErr bool
	}{
		{"default-preset", Preset(6), false},
		{"lc-too-large", EncoderOptions{LC: 9, DictSize: DictSizeMin}, true},
		{"lc-plus-lp-too-large", EncoderOptions{LC: 3, LP: 2, DictSize: DictSizeMin}, true},
		{"pb-too-large", EncoderOptions{PB: 5, DictSize: DictSizeMin}, true},
		{"dict-too-small", EncoderOptions{DictSize: DictSizeMin - 1}, true},
		{"dict-too-large", EncoderOptions{DictSize: DictSizeMax + 1}, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.opt.Validate()
			if tc.wantErr && err == nil {
				t.Fatal("expected validation error, got nil")
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("unexpected validation error: %v", err)
			}
		})
	}
}

func TestEncoderOptions_PropsRoundTrip(t *testing.T) {
	for lc := uint32(0); lc <= 4; lc++ {
		for lp := uint32(0); lp+lc <= 4; lp++ {
			for pb := uint32(0); pb <= 4; pb++ {
				opt := EncoderOptions{LC: lc, LP: lp, PB: pb}
				gotLC, gotLP, gotPB, err := propsToLCLPPB(opt.Props())
				if err != nil {
					t.Fatalf("propsToLCLPPB failed: %v", err)
				}
				if gotLC != lc || gotLP != lp || gotPB != pb {
					t.Fatalf("props round-trip mismatch: got (%d,%d,%d) want (%d,%d,%d)", gotLC, gotLP, gotPB, lc, lp, pb)
				}
			}
		}
	}
}

func TestGetMemoryUsageByProps_MatchesExplicit(t *testing.T) {
	opt := Preset(6)
	viaProps, err := GetMemoryUsageByProps(opt.DictSize, opt.Props())
	if err != nil {
		t.Fatalf("GetMemoryUsageByProps failed: %v", err)
	}
	viaExplicit, err := GetMemoryUsage(opt.DictSize, opt.LC, opt.LP)
	if err != nil {
		t.Fatalf("GetMemoryUsage failed: %v", err)
	}
	if viaProps != viaExplicit {
		t.Fatalf("memory estimates disagree: byProps=%d explicit=%d", viaProps, viaExplicit)
	}
}

func TestNormalizeDictSize_ClampsAndRoundsUp(t *testing.T) {
	got, err := normalizeDictSize(1)
	if err != nil {
		t.Fatalf("normalizeDictSize failed: %v", err)
	}
	if got != DictSizeMin {
		t.Fatalf("normalizeDictSize(1) = %d, want %d", got, DictSizeMin)
	}
	got, err = normalizeDictSize(DictSizeMin + 1)
	if err != nil {
		t.Fatalf("normalizeDictSize failed: %v", err)
	}
	if got != DictSizeMin+16 {
		t.Fatalf("normalizeDictSize(DictSizeMin+1) = %d, want %d", got, DictSizeMin+16)
	}
	if _, err := normalizeDictSize(DictSizeMax + 1); err != ErrInvalidInput {
		t.Fatalf("expected ErrInvalidInput for oversized dict, got %v", err)
	}
}
