/*
 * Copyright 2025 Carver Automation Corporation.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package aggregate computes summary statistics over optional metric values.
//
// Nil entries are ignored and a nil result means no value was present, which
// is distinct from zero. Sums are accumulated in input order with plain float
// addition, so reordering the input may change the last bits of the result.
package aggregate

import (
	"math"
	"sort"

	"github.com/carverauto/netpulse/pkg/models"
)

func present(values []*float64) []float64 {
	out := make([]float64, 0, len(values))

	for _, v := range values {
		if v != nil {
			out = append(out, *v)
		}
	}

	return out
}

// Sum adds the present values.
func Sum(values []*float64) *float64 {
	nums := present(values)
	if len(nums) == 0 {
		return nil
	}

	var total float64
	for _, n := range nums {
		total += n
	}

	return &total
}

// Avg is the arithmetic mean of the present values.
func Avg(values []*float64) *float64 {
	nums := present(values)
	if len(nums) == 0 {
		return nil
	}

	total := *Sum(values)
	avg := total / float64(len(nums))

	return &avg
}

// Max returns the largest present value.
func Max(values []*float64) *float64 {
	nums := present(values)
	if len(nums) == 0 {
		return nil
	}

	best := math.Inf(-1)
	for _, n := range nums {
		best = math.Max(best, n)
	}

	return &best
}

// Min returns the smallest present value.
func Min(values []*float64) *float64 {
	nums := present(values)
	if len(nums) == 0 {
		return nil
	}

	best := math.Inf(1)
	for _, n := range nums {
		best = math.Min(best, n)
	}

	return &best
}

// Median returns the middle value, or the mean of the two middle values for
// an even count.
func Median(values []*float64) *float64 {
	nums := present(values)
	if len(nums) == 0 {
		return nil
	}

	sort.Float64s(nums)

	mid := len(nums) / 2
	if len(nums)%2 != 0 {
		return &nums[mid]
	}

	m := (nums[mid-1] + nums[mid]) / 2

	return &m
}

// Percentile uses the nearest-rank method: the smallest value with at least
// p percent of the samples at or below it.
func Percentile(values []*float64, p float64) *float64 {
	nums := present(values)
	if len(nums) == 0 {
		return nil
	}

	sort.Float64s(nums)

	idx := int(math.Ceil(p/100*float64(len(nums)))) - 1
	idx = max(0, min(idx, len(nums)-1))

	return &nums[idx]
}

// Column projects one metric out of a slice of samples.
func Column(samples []*models.TelemetrySample, metric func(*models.TelemetrySample) *float64) []*float64 {
	out := make([]*float64, len(samples))
	for i, s := range samples {
		out[i] = metric(s)
	}

	return out
}
