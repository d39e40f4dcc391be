package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		name string
		in   string
		sep  string
		want string
	}{
		{"simple word", "Shoes", "_", "shoes"},
		{"space to separator", "Air Max", "_", "air_max"},
		{"run of symbols collapses", "Air -- Max!!", "_", "air_max"},
		{"leading and trailing stripped", "  Air Max  ", "_", "air_max"},
		{"digits kept", "Model 90", "_", "model_90"},
		{"dash separator", "Tech News", "-", "tech-news"},
		{"empty", "", "_", ""},
		{"only symbols", "!!!", "_", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Slugify(tt.in, tt.sep))
		})
	}
}

func TestSlugifyIdempotent(t *testing.T) {
	for _, in := range []string{"Air Max", "a--b__c", "Running Gear 2025"} {
		once := Slugify(in, "_")
		assert.Equal(t, once, Slugify(once, "_"))
	}
}

func TestDiscountPercent(t *testing.T) {
	tests := []struct {
		name      string
		price     float64
		salePrice float64
		want      int
	}{
		{"twenty percent", 100, 80, 20},
		{"twenty five percent", 100, 75, 25},
		{"sale equals price", 100, 100, 0},
		{"no sale price", 100, 0, 0},
		{"no price", 0, 80, 0},
		{"sale above price", 100, 120, 0},
		{"rounds to nearest", 3, 2, 33},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DiscountPercent(tt.price, tt.salePrice))
		})
	}
}
