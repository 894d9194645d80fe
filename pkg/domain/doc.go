// Package domain defines the entities shared across the HexaCiphers service:
// posts, users, campaigns, alerts, dashboard statistics and the results of
// content analysis.
//
// The package also owns the two display rules the dashboard relies on:
// RiskLevelFor buckets a [0,1] risk score into low, medium or high, and
// SentimentDistribution.Percentages renders one-decimal percentage shares.
package domain
