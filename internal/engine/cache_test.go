package engine

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCacheSightProgression(t *testing.T) {
	c := newResultCache()
	t0 := time.Now()

	assert.Equal(t, -1, c.sight(EAN13, "4006381333931", t0))
	assert.Equal(t, 0, c.sight(EAN13, "4006381333931", t0.Add(500*time.Millisecond)))
	assert.Equal(t, 1, c.sight(EAN13, "4006381333931", t0.Add(time.Second)))
	assert.Equal(t, 2, c.sight(EAN13, "4006381333931", t0.Add(1500*time.Millisecond)))
}

func TestCacheWindowExpiry(t *testing.T) {
	c := newResultCache()
	t0 := time.Now()

	assert.Equal(t, -1, c.sight(QRCode, "hello", t0))
	assert.Equal(t, 0, c.sight(QRCode, "hello", t0.Add(time.Second)))

	// An entry unseen for longer than the window starts over uncertain.
	assert.Equal(t, -1, c.sight(QRCode, "hello", t0.Add(5*time.Second)))
}

func TestCacheWindowSlides(t *testing.T) {
	c := newResultCache()
	t0 := time.Now()

	// Each sighting refreshes the window, so steady sightings never expire.
	c.sight(QRCode, "steady", t0)
	for i := 1; i <= 5; i++ {
		count := c.sight(QRCode, "steady", t0.Add(time.Duration(i)*2*time.Second))
		assert.Equal(t, i-1, count)
	}
}

func TestCacheKeysBySymbologyAndPayload(t *testing.T) {
	c := newResultCache()
	t0 := time.Now()

	assert.Equal(t, -1, c.sight(EAN13, "123", t0))
	assert.Equal(t, -1, c.sight(UPCA, "123", t0), "same payload under another symbology is distinct")
	assert.Equal(t, -1, c.sight(EAN13, "456", t0))
	assert.Equal(t, 0, c.sight(EAN13, "123", t0.Add(time.Second)))
}

func TestCacheExpireSweep(t *testing.T) {
	c := newResultCache()
	t0 := time.Now()

	for i := 0; i < 300; i++ {
		c.sight(QRCode, fmt.Sprintf("payload-%d", i), t0)
	}
	assert.Len(t, c.entries, 300)

	// A fresh sighting past the window sweeps the stale entries out.
	c.sight(QRCode, "fresh", t0.Add(4*time.Second))
	assert.Len(t, c.entries, 1)
}
