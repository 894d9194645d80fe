package detection

import (
	"math"
	"sort"
	"time"

	"github.com/hexaciphers/hexaciphers/internal/application/analysis"
	"github.com/hexaciphers/hexaciphers/pkg/domain"
)

// network is a connected group of users linked by shared hashtags
type network struct {
	users      []string
	posts      int
	density    float64
	risk       float64
	first      time.Time
	last       time.Time
	indicators []string
}

// userGraph is an undirected graph of users; an edge joins two users that
// used at least one common hashtag
type userGraph struct {
	nodes []string
	index map[string]int
	edges map[[2]int]struct{}
}

func newUserGraph() *userGraph {
	return &userGraph{
		index: make(map[string]int),
		edges: make(map[[2]int]struct{}),
	}
}

func (g *userGraph) addNode(user string) int {
	if i, ok := g.index[user]; ok {
		return i
	}
	g.index[user] = len(g.nodes)
	g.nodes = append(g.nodes, user)
	return len(g.nodes) - 1
}

func (g *userGraph) addEdge(a, b int) {
	if a == b {
		return
	}
	if a > b {
		a, b = b, a
	}
	g.edges[[2]int{a, b}] = struct{}{}
}

// components returns the connected components as node index lists, each in
// insertion order
func (g *userGraph) components() [][]int {
	parent := make([]int, len(g.nodes))
	for i := range parent {
		parent[i] = i
	}
	var find func(int) int
	find = func(x int) int {
		for parent[x] != x {
			parent[x] = parent[parent[x]]
			x = parent[x]
		}
		return x
	}
	for e := range g.edges {
		ra, rb := find(e[0]), find(e[1])
		if ra != rb {
			if ra < rb {
				parent[rb] = ra
			} else {
				parent[ra] = rb
			}
		}
	}

	groups := make(map[int][]int)
	roots := make([]int, 0)
	for i := range g.nodes {
		r := find(i)
		if _, ok := groups[r]; !ok {
			roots = append(roots, r)
		}
		groups[r] = append(groups[r], i)
	}
	sort.Ints(roots)

	out := make([][]int, 0, len(roots))
	for _, r := range roots {
		out = append(out, groups[r])
	}
	return out
}

// density is edges / possible edges inside the component
func (g *userGraph) density(members []int) float64 {
	n := len(members)
	if n < 2 {
		return 0
	}
	in := make(map[int]struct{}, n)
	for _, m := range members {
		in[m] = struct{}{}
	}
	edges := 0
	for e := range g.edges {
		_, a := in[e[0]]
		_, b := in[e[1]]
		if a && b {
			edges++
		}
	}
	return float64(edges) / (float64(n*(n-1)) / 2)
}

func findNetworks(posts []domain.Post) []network {
	g := newUserGraph()
	tagUsers := make(map[string][]int)
	tagOrder := make([]string, 0)

	for _, p := range posts {
		u := g.addNode(p.UserID)
		for _, tag := range analysis.ExtractHashtags(p.Content) {
			if _, ok := tagUsers[tag]; !ok {
				tagOrder = append(tagOrder, tag)
			}
			tagUsers[tag] = append(tagUsers[tag], u)
		}
	}

	for _, tag := range tagOrder {
		users := tagUsers[tag]
		for i := 0; i < len(users); i++ {
			for j := i + 1; j < len(users); j++ {
				g.addEdge(users[i], users[j])
			}
		}
	}

	networks := make([]network, 0)
	for _, members := range g.components() {
		if len(members) < MinNetworkSize {
			continue
		}

		users := make([]string, len(members))
		memberSet := make(map[string]struct{}, len(members))
		for i, m := range members {
			users[i] = g.nodes[m]
			memberSet[g.nodes[m]] = struct{}{}
		}

		timestamps := make([]time.Time, 0)
		for _, p := range posts {
			if _, ok := memberSet[p.UserID]; ok {
				timestamps = append(timestamps, p.CreatedAt)
			}
		}
		if len(timestamps) == 0 {
			continue
		}
		sort.Slice(timestamps, func(i, j int) bool { return timestamps[i].Before(timestamps[j]) })

		density := g.density(members)
		n := network{
			users:      users,
			posts:      len(timestamps),
			density:    density,
			risk:       math.Min(1, density*float64(len(members))/10),
			first:      timestamps[0],
			last:       timestamps[len(timestamps)-1],
			indicators: networkIndicators(density, timestamps),
		}
		networks = append(networks, n)
	}
	return networks
}

// networkIndicators expects timestamps sorted ascending
func networkIndicators(density float64, timestamps []time.Time) []string {
	indicators := make([]string, 0)
	if density > highDensityCutoff {
		indicators = append(indicators, IndicatorHighDensityNetwork)
	}

	if len(timestamps) > 1 {
		near := 0
		for i := 1; i < len(timestamps); i++ {
			if timestamps[i].Sub(timestamps[i-1]) < coordinatedGap {
				near++
			}
		}
		if float64(near) > float64(len(timestamps)-1)*coordinatedShare {
			indicators = append(indicators, IndicatorCoordinatedTiming)
		}
	}
	return indicators
}
