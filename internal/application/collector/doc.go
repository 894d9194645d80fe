// Package collector simulates Twitter, Reddit and YouTube collection.
//
// Posts are drawn in order from fixed sample corpora and attributed to a
// small roster of sample accounts. Engagement and timestamps come from the
// injected random source and clock, so a seeded collector is deterministic.
package collector
