// Package detection finds coordinated activity in collected posts.
//
// Hashtag campaigns are scored from volume, time concentration, the share of
// participating bot accounts and the number of suspicious indicators. Users
// that share hashtags form an undirected graph; dense connected components
// are reported as network campaigns. Bot accounts are flagged from username
// shape, repeated content and posting frequency.
package detection
