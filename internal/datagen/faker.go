//-------------------------------------------------------------------------
//
// pgEdge Campaign Generator
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package datagen provides data generation utilities.
package datagen

import "github.com/brianvoe/gofakeit/v7"

// Faker is a seeded random source backed by gofakeit. A Faker is not safe
// for concurrent use; give each goroutine its own.
type Faker struct {
	faker *gofakeit.Faker
}

// NewFakerWithSeed creates a new Faker with a specific seed for reproducibility.
func NewFakerWithSeed(seed uint64) *Faker {
	return &Faker{
		faker: gofakeit.New(seed),
	}
}

// Int generates a random integer between min and max (inclusive).
func (f *Faker) Int(min, max int) int {
	if min >= max {
		return min
	}
	return f.faker.IntRange(min, max)
}

// Float64 generates a random float64 between min and max.
func (f *Faker) Float64(min, max float64) float64 {
	if min >= max {
		return min
	}
	return f.faker.Float64Range(min, max)
}

// Source is the random source used by the generators. Faker implements it;
// tests may supply a deterministic stub.
type Source interface {
	// Int returns an integer in [min, max].
	Int(min, max int) int

	// Float64 returns a float in [min, max].
	Float64(min, max float64) float64
}

// Choose returns a random element from the given slice.
func Choose[T any](src Source, items []T) T {
	if len(items) == 0 {
		var zero T
		return zero
	}
	return items[src.Int(0, len(items)-1)]
}

// SplitSeed derives an independent seed for stream n from a base seed.
// The mixing step is the SplitMix64 finalizer.
func SplitSeed(base uint64, n uint64) uint64 {
	z := base + (n+1)*0x9E3779B97F4A7C15
	z = (z ^ (z >> 30)) * 0xBF58476D1CE4E5B9
	z = (z ^ (z >> 27)) * 0x94D049BB133111EB
	return z ^ (z >> 31)
}
