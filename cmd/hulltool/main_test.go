package main

import (
	"testing"

	"github.com/Faultbox/hullmesh/pkg/math"
)

func TestParseSize(t *testing.T) {
	tests := []struct {
		in      string
		want    math.Vec3
		wantErr bool
	}{
		{"32,32,56", math.Vec3{X: 32, Y: 32, Z: 56}, false},
		{" 64 , 8,1.5", math.Vec3{X: 64, Y: 8, Z: 1.5}, false},
		{"32,32", math.Vec3{}, true},
		{"32,x,56", math.Vec3{}, true},
		{"32,0,56", math.Vec3{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseSize(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseSize(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("parseSize(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}
