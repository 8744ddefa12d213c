package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestServesPincode(t *testing.T) {
	v := &Vendor{PincodesServed: []string{"400001", "400002"}}
	assert.True(t, v.ServesPincode("400001"))
	assert.False(t, v.ServesPincode("400099"))
}

func TestIsCurrentlyOpen(t *testing.T) {
	v := &Vendor{IsOpen: true, OpeningTime: "06:00", ClosingTime: "14:00"}

	at := func(hour, minute int) time.Time {
		return time.Date(2026, 3, 10, hour, minute, 0, 0, time.UTC)
	}

	assert.False(t, v.IsCurrentlyOpen(at(5, 59)))
	assert.True(t, v.IsCurrentlyOpen(at(6, 0)))
	assert.True(t, v.IsCurrentlyOpen(at(12, 30)))
	assert.True(t, v.IsCurrentlyOpen(at(14, 0)))
	assert.False(t, v.IsCurrentlyOpen(at(14, 1)))

	v.IsOpen = false
	assert.False(t, v.IsCurrentlyOpen(at(12, 0)), "closed flag wins over hours")
}
