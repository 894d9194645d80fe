// Package alerts raises dashboard alerts from recent posts, users and
// detected campaigns.
//
// Checks:
//   - trending_negative: anti-India volume, engagement or author count in the last hour
//   - coordinated_campaign: campaigns with enough participants
//   - high_risk_campaign: campaigns whose risk level is high
//   - high_influence_user: large accounts posting anti-India content in the last 24 hours
//
// Raised alerts are stored and published on the alert.events topic.
package alerts
