// Copyright (c) 2026 The StakeVault developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package co_test

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/stakevault/stakevault/co"
)

func TestGoesWait(t *testing.T) {
	var goes co.Goes
	var n int32

	for i := 0; i < 10; i++ {
		goes.Go(func() { atomic.AddInt32(&n, 1) })
	}
	goes.Wait()
	assert.Equal(t, int32(10), atomic.LoadInt32(&n))
}

func TestGoesDone(t *testing.T) {
	var goes co.Goes
	goes.Go(func() { time.Sleep(10 * time.Millisecond) })

	select {
	case <-goes.Done():
	case <-time.After(time.Second):
		t.Fatal("done channel never closed")
	}
}
