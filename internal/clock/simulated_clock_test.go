// Copyright 2026 The Sycoca Authors
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

package clock_test

import (
	"testing"
	"time"

	"github.com/googlecloudplatform/sycoca/internal/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimulatedClockNow(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	sc := clock.NewSimulatedClock(start)
	assert.Equal(t, start, sc.Now())

	sc.AdvanceTime(time.Second)
	assert.Equal(t, start.Add(time.Second), sc.Now())

	later := start.Add(time.Hour)
	sc.SetTime(later)
	assert.Equal(t, later, sc.Now())
}

func TestSimulatedClockAfterFiresOnAdvance(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	sc := clock.NewSimulatedClock(start)

	ch := sc.After(1500 * time.Millisecond)

	select {
	case <-ch:
		t.Fatal("After fired before the target time was reached")
	default:
	}

	sc.AdvanceTime(time.Second)
	select {
	case <-ch:
		t.Fatal("After fired too early")
	default:
	}

	sc.AdvanceTime(time.Second)
	select {
	case got := <-ch:
		assert.Equal(t, start.Add(1500*time.Millisecond), got)
	default:
		t.Fatal("After did not fire once the target time was reached")
	}
}

func TestSimulatedClockAfterNonPositiveFiresImmediately(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	sc := clock.NewSimulatedClock(start)

	ch := sc.After(0)
	got, ok := <-ch
	require.True(t, ok)
	assert.Equal(t, start, got)
}

var _ clock.Clock = clock.RealClock{}
var _ clock.Clock = &clock.SimulatedClock{}
