// Package links supplies a small random sample of external recipe sites to
// show next to a generated recipe. Purely decorative.
package links

import "math/rand"

var recipeSites = []string{
	"https://www.allrecipes.com",
	"https://www.bbcgoodfood.com",
	"https://www.seriouseats.com",
	"https://www.epicurious.com",
	"https://www.bonappetit.com",
	"https://www.simplyrecipes.com",
	"https://www.food.com",
	"https://www.delish.com",
}

// Sample returns n distinct recipe-site URLs. n larger than the site list
// returns every site, shuffled. Uses the top-level math/rand source, which
// is safe for concurrent callers.
func Sample(n int) []string {
	if n <= 0 {
		return nil
	}
	if n > len(recipeSites) {
		n = len(recipeSites)
	}
	perm := rand.Perm(len(recipeSites))
	out := make([]string, n)
	for i := 0; i < n; i++ {
		out[i] = recipeSites[perm[i]]
	}
	return out
}
