package faker

import (
	"sort"
	"sync"
	"time"

	"github.com/brianvoe/gofakeit/v7"

	"github.com/Aleph-Alpha/testdatagen/v1/capability"
	"github.com/Aleph-Alpha/testdatagen/v1/registry"
)

// Generator adapts a gofakeit source into registry functions. The
// underlying source is not safe for concurrent use, so every generator
// call takes the same lock.
type Generator struct {
	mu    sync.Mutex
	faker *gofakeit.Faker
}

// New creates a Generator seeded from cfg.
func New(cfg Config) *Generator {
	return &Generator{faker: gofakeit.New(cfg.Seed)}
}

type generator struct {
	name        string
	description string
	group       string
	fn          interface{}
}

func (g *Generator) str(gen func(f *gofakeit.Faker) string) func() string {
	return func() string {
		g.mu.Lock()
		defer g.mu.Unlock()
		return gen(g.faker)
	}
}

func (g *Generator) generators() []generator {
	return []generator{
		{"name", "Full person name", "person", g.str((*gofakeit.Faker).Name)},
		{"first_name", "Person first name", "person", g.str((*gofakeit.Faker).FirstName)},
		{"last_name", "Person last name", "person", g.str((*gofakeit.Faker).LastName)},
		{"username", "User name", "person", g.str((*gofakeit.Faker).Username)},
		{"job_title", "Job title", "person", g.str((*gofakeit.Faker).JobTitle)},
		{"email", "Email address", "contact", g.str((*gofakeit.Faker).Email)},
		{"phone", "Phone number", "contact", g.str((*gofakeit.Faker).Phone)},
		{"company", "Company name", "company", g.str((*gofakeit.Faker).Company)},
		{"address", "Single-line postal address", "address", g.str(func(f *gofakeit.Faker) string { return f.Address().Address })},
		{"street", "Street name and number", "address", g.str((*gofakeit.Faker).Street)},
		{"city", "City name", "address", g.str((*gofakeit.Faker).City)},
		{"state", "State name", "address", g.str((*gofakeit.Faker).State)},
		{"country", "Country name", "address", g.str((*gofakeit.Faker).Country)},
		{"zip", "Postal code", "address", g.str((*gofakeit.Faker).Zip)},
		{"uuid", "Random UUID v4", "internet", g.str((*gofakeit.Faker).UUID)},
		{"url", "URL", "internet", g.str((*gofakeit.Faker).URL)},
		{"ipv4", "IPv4 address", "internet", g.str((*gofakeit.Faker).IPv4Address)},
		{"word", "Single word", "text", g.str((*gofakeit.Faker).Word)},
		{"sentence", "Sentence of the given number of words (default 5)", "text", g.sentence},
		{"date", "Random date", "date_time", g.date},
		{"int_range", "Integer between min and max, inclusive", "numeric", g.intRange},
		{"bool", "Random boolean", "numeric", g.boolean},
	}
}

func (g *Generator) sentence(words ...int) string {
	n := 5
	if len(words) > 0 && words[0] > 0 {
		n = words[0]
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.faker.Sentence(n)
}

func (g *Generator) date() time.Time {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.faker.Date()
}

func (g *Generator) intRange(lo, hi int) int {
	if lo > hi {
		lo, hi = hi, lo
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.faker.IntRange(lo, hi)
}

func (g *Generator) boolean() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.faker.Bool()
}

// Register adds every generator to reg as faker.<name> and returns the
// full names that were registered, sorted. Existing entries are replaced.
func (g *Generator) Register(reg *registry.Registry) []string {
	var registered []string
	for _, gen := range g.generators() {
		ok := reg.Register(gen.name, gen.fn, gen.description, registry.CategoryFaker,
			registry.WithNamespace(Namespace),
			registry.WithTags("faker", gen.group),
			registry.WithCapabilities(capability.Random),
			registry.WithOverwrite(),
		)
		if ok {
			registered = append(registered, Namespace+"."+gen.name)
		}
	}
	sort.Strings(registered)
	return registered
}

// Names lists the generator names without the namespace, sorted.
func Names() []string {
	gens := (&Generator{}).generators()
	out := make([]string, 0, len(gens))
	for _, gen := range gens {
		out = append(out, gen.name)
	}
	sort.Strings(out)
	return out
}
