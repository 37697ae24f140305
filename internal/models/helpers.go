package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

func GenerateEventID() string {
	return fmt.Sprintf("evt_%s_%d",
		time.Now().Format("20060102"),
		uuid.New().ID())
}

func GeneratePurchaseID() string {
	return fmt.Sprintf("buy_%s_%d",
		time.Now().Format("20060102"),
		uuid.New().ID())
}
