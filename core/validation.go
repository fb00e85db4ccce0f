// Copyright 2025 Embershare
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package core

import (
	"fmt"
	"math"
)

// ValidateItem validates an Item according to domain rules.
//
// Validation rules:
//   - Name must not be empty
//   - Quantity must not be negative
//   - Latitude must be in [-90, 90], longitude in [-180, 180]
//
// NOT validated (populated by processors):
//   - Vector and TextFingerprint (empty until the embedding processor runs)
//   - ID (0 is valid from database sequences)
//   - CategoryId (0 means uncategorized)
func ValidateItem(item *Item) error {
	if item == nil {
		return fmt.Errorf("%w: item is nil", ErrInvalidItem)
	}

	if item.Name == "" {
		return fmt.Errorf("%w: %w", ErrInvalidItem, ErrEmptyItemName)
	}

	if item.Quantity < 0 {
		return fmt.Errorf("%w: %w", ErrInvalidItem, ErrNegativeQuantity)
	}

	if !IsValidCoordinate(item.Latitude, item.Longitude) {
		return fmt.Errorf("%w: %w", ErrInvalidItem, ErrInvalidCoordinates)
	}

	return nil
}

// ValidateCategory validates a Category according to domain rules.
func ValidateCategory(category *Category) error {
	if category == nil {
		return fmt.Errorf("%w: category is nil", ErrInvalidCategory)
	}

	if category.Name == "" {
		return fmt.Errorf("%w: %w", ErrInvalidCategory, ErrEmptyCategoryName)
	}

	return nil
}

// IsValidCoordinate checks that a latitude/longitude pair is in range.
func IsValidCoordinate(lat, lng float64) bool {
	return lat >= -90 && lat <= 90 && lng >= -180 && lng <= 180
}

// RoundScore rounds a similarity score to 4 decimal places for presentation
// stability across runs and providers.
func RoundScore(score float32) float32 {
	return float32(math.Round(float64(score)*10000) / 10000)
}
