package cache

import "fmt"

const keyPrefix = "deluxetours"

// TourKey returns the cache key for a single tour
func TourKey(tourID string) string {
	return fmt.Sprintf("%s:tours:%s", keyPrefix, tourID)
}

// TourListKey returns the cache key for a tour listing query
func TourListKey(queryHash string) string {
	return fmt.Sprintf("%s:tours:list:%s", keyPrefix, queryHash)
}

// TourPattern matches every cached tour entry, used for invalidation on writes
func TourPattern() string {
	return fmt.Sprintf("%s:tours:*", keyPrefix)
}

// BookingStatsKey returns the cache key for the admin booking stats overview
func BookingStatsKey() string {
	return fmt.Sprintf("%s:bookings:stats", keyPrefix)
}
