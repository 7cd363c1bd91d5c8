package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRefCountLifecycle(t *testing.T) {
	var r refCount
	r.init()
	assert.Equal(t, int32(1), r.count())

	r.ref("thing", 1)
	assert.Equal(t, int32(2), r.count())

	assert.Equal(t, int32(1), r.ref("thing", -1))
	assert.Equal(t, int32(0), r.ref("thing", -1))
}

func TestRefOfReleasedPanics(t *testing.T) {
	var r refCount
	r.init()
	r.ref("widget", -1)

	assert.PanicsWithValue(t, "engine: reference to released widget", func() {
		r.ref("widget", 1)
	})
}

func TestUnrefBelowZeroPanics(t *testing.T) {
	var r refCount
	r.init()
	r.ref("widget", -1)

	assert.PanicsWithValue(t, "engine: widget reference count dropped below zero", func() {
		r.ref("widget", -1)
	})
}
