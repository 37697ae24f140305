package services

import "time"

const (
	KeyRound          = "lottery:round:%s"
	KeyTreasury       = "lottery:treasury"
	KeyDrawCounter    = "lottery:draw_counter"
	KeyFeedSnapshot   = "oracle:feed:snapshot"
	KeyEventLog       = "lottery:events"
	KeyPurchase       = "lottery:purchase:%s"
	KeyBuyerPurchases = "buyer:%s:purchases"
	KeyCustody        = "custody:%s"

	TTLPurchase = 30 * 24 * time.Hour

	// EventLogDepth bounds the audit list kept in Redis.
	EventLogDepth = 500
	// PurchaseHistoryDepth bounds each buyer's purchase index.
	PurchaseHistoryDepth = 100
)
