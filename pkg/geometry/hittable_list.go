package geometry

import (
	"github.com/df07/go-batch-raytracer/pkg/core"
	"github.com/df07/go-batch-raytracer/pkg/material"
)

// HittableList is an insertion-ordered aggregate of shapes without any spatial index.
// It must not be modified while a render is in progress.
type HittableList struct {
	Shapes []Shape
}

// NewHittableList creates a list holding the given shapes
func NewHittableList(shapes ...Shape) *HittableList {
	return &HittableList{Shapes: shapes}
}

// Add appends shapes to the list
func (l *HittableList) Add(shapes ...Shape) {
	l.Shapes = append(l.Shapes, shapes...)
}

// Len returns the number of shapes
func (l *HittableList) Len() int {
	return len(l.Shapes)
}

// Hit returns the closest intersection across all shapes.
// The upper bound shrinks to the best t found so far, so later shapes are
// tested against an ever tighter interval and ties keep the earlier shape.
func (l *HittableList) Hit(ray core.Ray, tMin, tMax float64) (*material.HitRecord, bool) {
	var closestHit *material.HitRecord
	closestSoFar := tMax

	for _, shape := range l.Shapes {
		if hit, isHit := shape.Hit(ray, tMin, closestSoFar); isHit {
			closestSoFar = hit.T
			closestHit = hit
		}
	}

	return closestHit, closestHit != nil
}

func (l *HittableList) sealed() {}
