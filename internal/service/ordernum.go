package service

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"time"
)

const base36 = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// Order numbers are minted by this system, human-readable, and act as the
// idempotency key for order persistence. Each payment rail keeps its own
// recognizable format.

// hostedOrderNumber mints e.g. "4ACE-20260831-K3QX".
func hostedOrderNumber(now time.Time) string {
	var b strings.Builder
	for i := 0; i < 4; i++ {
		b.WriteByte(base36[rand.IntN(len(base36))])
	}
	return fmt.Sprintf("4ACE-%s-%s", now.Format("20060102"), b.String())
}

// paypalOrderNumber mints e.g. "4ACE-PP-2026-482913".
func paypalOrderNumber(now time.Time) string {
	return fmt.Sprintf("4ACE-PP-%d-%06d", now.Year(), rand.IntN(900000)+100000)
}

// manualOrderNumber mints e.g. "4ACE-VK-2026-718204".
func manualOrderNumber(now time.Time) string {
	return fmt.Sprintf("4ACE-VK-%d-%06d", now.Year(), rand.IntN(900000)+100000)
}
