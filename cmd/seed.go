package cmd

import (
	"fmt"
	"io"
	"math/rand"
	"sort"
	"time"

	"github.com/chris-regnier/daybook/internal/entry"
	"github.com/chris-regnier/daybook/internal/logger"
	"github.com/chris-regnier/daybook/internal/ui"
	"github.com/spf13/cobra"
)

// generator returns a short title and a markdown body.
type generator func(rng *rand.Rand) (title, body string)

// profile defines a user persona for generating seed data.
type profile struct {
	name        string
	description string
	// daysBack is how far back to start generating entries.
	daysBack int
	// chance is the probability of writing on a given weekday (0.0–1.0).
	chance func(wd time.Weekday) float64
	// bookmarkChance is the probability that an entry gets bookmarked.
	bookmarkChance float64
	// checkItems are created once and ticked at random on entries.
	checkItems []string
	entries    []generator
}

func weekend(wd time.Weekday) bool { return wd == time.Saturday || wd == time.Sunday }

var profiles = map[string]profile{
	"daily-writer": {
		name:           "daily-writer",
		description:    "Consistent daily journaler who rarely misses a day",
		daysBack:       90,
		chance:         func(time.Weekday) float64 { return 0.92 },
		bookmarkChance: 0.08,
		checkItems:     []string{"Meditate", "Exercise", "Read", "No phone"},
		entries:        []generator{dayInThirds, reflection, gratitude, freeform},
	},
	"weekend-journaler": {
		name:        "weekend-journaler",
		description: "Writes mostly on weekends and occasionally on weekdays",
		daysBack:    120,
		chance: func(wd time.Weekday) float64 {
			if weekend(wd) {
				return 0.85
			}
			return 0.15
		},
		bookmarkChance: 0.2,
		checkItems:     []string{"Outdoors", "Cooked", "Saw friends"},
		entries:        []generator{adventure, cooking, freeform},
	},
	"dev-standup": {
		name:        "dev-standup",
		description: "Developer keeping work notes on weekdays only",
		daysBack:    60,
		chance: func(wd time.Weekday) float64 {
			if weekend(wd) {
				return 0
			}
			return 0.88
		},
		bookmarkChance: 0.05,
		checkItems:     []string{"Shipped", "Reviewed PRs", "Deep work"},
		entries:        []generator{standup, debugging},
	},
}

var (
	seedList bool
	seedRand int64
)

var seedCmd = &cobra.Command{
	Use:   "seed [profile]",
	Short: "Seed the diary with realistic sample data",
	Long: `Populate the diary with realistic, backdated entries to simulate an
active user, so streaks, month browsing and bookmarks have something to show.

Available profiles:
  daily-writer      – Consistent daily journaler (~90 days, rarely misses)
  weekend-journaler – Writes mostly on weekends (~120 days)
  dev-standup       – Work notes on weekdays (~60 days)

If no profile is specified, "daily-writer" is used.`,
	Example: `  daybook seed
  daybook seed weekend-journaler
  daybook seed dev-standup --rand 42
  daybook seed --list`,
	Args:     cobra.MaximumNArgs(1),
	PostRunE: invalidateCachePostRun,
	RunE: func(cmd *cobra.Command, args []string) error {
		if seedList {
			names := make([]string, 0, len(profiles))
			for name := range profiles {
				names = append(names, name)
			}
			sort.Strings(names)
			fmt.Fprintln(cmd.OutOrStdout(), "Available profiles:")
			for _, name := range names {
				fmt.Fprintf(cmd.OutOrStdout(), "  %-20s %s\n", name, profiles[name].description)
			}
			return nil
		}

		profileName := "daily-writer"
		if len(args) > 0 {
			profileName = args[0]
		}
		src := seedRand
		if !cmd.Flags().Changed("rand") {
			src = time.Now().UnixNano()
		}
		return runSeed(cmd.OutOrStdout(), profileName, rand.New(rand.NewSource(src)), journ.Now())
	},
}

// seedResult is the JSON output of seed.
type seedResult struct {
	Profile           string `json:"profile"`
	CheckItemsCreated int    `json:"check_items_created"`
	EntriesCreated    int    `json:"entries_created"`
}

func runSeed(w io.Writer, profileName string, rng *rand.Rand, now time.Time) error {
	p, ok := profiles[profileName]
	if !ok {
		return invalidf("unknown profile %q (run 'daybook seed --list' to see available profiles)", profileName)
	}
	res := seedResult{Profile: p.name}

	items, created, err := ensureCheckItems(p.checkItems)
	if err != nil {
		return err
	}
	res.CheckItemsCreated = created

	cal := journ.Calendar()
	start := cal.AddDays(cal.StartOfDay(now), -p.daysBack)
	for day := start; !day.After(now); day = cal.AddDays(day, 1) {
		if rng.Float64() >= p.chance(day.Weekday()) {
			continue
		}

		gen := p.entries[rng.Intn(len(p.entries))]
		title, body := gen(rng)
		date := day
		d := entry.Draft{
			Date:       &date,
			Title:      title,
			Body:       body,
			Bookmarked: rng.Float64() < p.bookmarkChance,
			Weather:    randomWeather(rng),
			Checklist:  randomChecklist(items, rng),
		}

		// Entries go straight to the backend so CreatedAt can be backdated.
		createdAt := randomTimeOfDay(day, rng)
		if createdAt.After(now) {
			createdAt = now
		}
		e, err := entry.New(d, createdAt)
		if err != nil {
			return err
		}
		if err := backend.Create(e); err != nil {
			logger.Warn("skipping seed entry", "day", day.Format("2006-01-02"), "err", err)
			continue
		}
		res.EntriesCreated++
	}

	if jsonOutput {
		return ui.FormatJSON(w, res)
	}
	fmt.Fprintf(w, "Seeded with profile %q:\n", res.Profile)
	fmt.Fprintf(w, "  Check items created: %d\n", res.CheckItemsCreated)
	fmt.Fprintf(w, "  Entries created:     %d\n", res.EntriesCreated)
	return nil
}

// ensureCheckItems returns the check items with the given titles, creating
// the ones that do not exist yet.
func ensureCheckItems(titles []string) ([]entry.CheckItem, int, error) {
	existing, err := journ.ListCheckItems()
	if err != nil {
		return nil, 0, err
	}
	byTitle := make(map[string]entry.CheckItem, len(existing))
	for _, c := range existing {
		byTitle[c.Title] = c
	}

	items := make([]entry.CheckItem, 0, len(titles))
	created := 0
	for _, title := range titles {
		c, ok := byTitle[title]
		if !ok {
			if c, err = journ.CreateCheckItem(title); err != nil {
				return nil, created, err
			}
			created++
		}
		items = append(items, c)
	}
	return items, created, nil
}

func randomChecklist(items []entry.CheckItem, rng *rand.Rand) []entry.CheckedItem {
	var out []entry.CheckedItem
	for _, c := range items {
		if rng.Float64() < 0.5 {
			out = append(out, entry.CheckedItem{ItemID: c.ID, Title: c.Title})
		}
	}
	return out
}

var seedWeather = []entry.WeatherKind{
	entry.WeatherSunny, entry.WeatherCloudy, entry.WeatherRainy,
	entry.WeatherSnowy, entry.WeatherWindy, entry.WeatherFoggy,
}

func randomWeather(rng *rand.Rand) entry.Weather {
	if rng.Float64() < 0.3 {
		return entry.Weather{}
	}
	return entry.Weather{Kind: seedWeather[rng.Intn(len(seedWeather))]}
}

// randomTimeOfDay returns a time on the given day at a realistic hour.
func randomTimeOfDay(day time.Time, rng *rand.Rand) time.Time {
	// Most journal entries happen between 7am and 10pm
	hour := 7 + rng.Intn(15)
	minute := rng.Intn(60)
	return time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, day.Location())
}

func pick(rng *rand.Rand, options []string) string {
	return options[rng.Intn(len(options))]
}

func init() {
	seedCmd.Flags().BoolVar(&seedList, "list", false, "list available profiles")
	seedCmd.Flags().Int64Var(&seedRand, "rand", 0, "random source seed, for a repeatable history")
	rootCmd.AddCommand(seedCmd)
}

// --- Content generators ---

func dayInThirds(rng *rand.Rand) (string, string) {
	morning := pick(rng, []string{
		"Ran along the river before the fog lifted.",
		"Slow breakfast, then twenty minutes of stretching.",
		"Up early for the sunrise and a pot of coffee.",
		"Bad sleep, but the cold shower helped.",
	})
	afternoon := pick(rng, []string{
		"Three focused hours on the main project.",
		"Meetings ate the afternoon again.",
		"Worked from the library for a change of scene.",
		"Lunch with an old friend, long overdue.",
	})
	evening := pick(rng, []string{
		"Cooked pasta and watched a documentary about the deep sea.",
		"Jazz at the corner bar. The trumpet player was unreal.",
		"Called family. My niece can ride a bike now.",
		"Read in bed until the book fell on my face.",
	})
	return pick(rng, []string{"Full day", "Routine", "Steady"}),
		fmt.Sprintf("## Morning\n\n%s\n\n## Afternoon\n\n%s\n\n## Evening\n\n%s", morning, afternoon, evening)
}

func reflection(rng *rand.Rand) (string, string) {
	return pick(rng, []string{"Thinking", "Patience", "A year out"}), pick(rng, []string{
		"Noticed I stayed calm in a queue that would have wound me up last year. Growth is quiet sometimes.",
		"Had the awkward conversation instead of dodging it. Glad I did.",
		"The project is rough right now. Wrote down what I control and let the rest go.",
		"Failed at something today. Trying to treat it as information, not a verdict.",
	})
}

func gratitude(rng *rand.Rand) (string, string) {
	things := []string{
		"Rain on the window",
		"A kind word from a stranger",
		"Fresh bread from down the street",
		"A quiet bench in the park",
		"Afternoon light in the kitchen",
		"A colleague who helped me untangle a bug",
	}
	rng.Shuffle(len(things), func(i, j int) { things[i], things[j] = things[j], things[i] })
	return "Grateful", fmt.Sprintf("## Grateful For\n\n1. %s\n2. %s\n3. %s", things[0], things[1], things[2])
}

func freeform(rng *rand.Rand) (string, string) {
	return pick(rng, []string{"Ordinary", "Rainy day", "New cafe", "Bookshelf"}), pick(rng, []string{
		"Work, home, dinner. The ordinariness is its own comfort.",
		"Tried the new coffee place on the east side. Better espresso than my usual.",
		"Rearranged the bookshelf and found three books I forgot I owned.",
		"Rain all day. Perfect for reading and a big pot of soup.",
	})
}

func adventure(rng *rand.Rand) (string, string) {
	return pick(rng, []string{"Summit", "Coast", "Kayaking", "Market"}), pick(rng, []string{
		"Hiked to the summit. Steeper than it looked, but lunch on a flat rock above the valley made up for it.",
		"Drove to the coast, walked the beach, found a tide pool full of anemones.",
		"Kayaked the lake while it was still glassy. A heron ignored us completely.",
		"Farmers' market early: peaches, sourdough and local honey.",
	})
}

func cooking(rng *rand.Rand) (string, string) {
	return pick(rng, []string{"Sourdough", "Risotto", "Meal prep"}), pick(rng, []string{
		"Baked sourdough for the first time in months. Fed the neglected starter too.",
		"Mushroom risotto for friends. Patience with the stock, one ladle at a time.",
		"Meal prepped the week: roast chicken, grain bowls and miso soup.",
	})
}

func standup(rng *rand.Rand) (string, string) {
	yesterday := pick(rng, []string{
		"Finished the preferences endpoint with validation and tests.",
		"Wrote the backfill for records with null timestamps.",
		"Paired on the cache layer. Write-through with TTL invalidation.",
	})
	today := pick(rng, []string{
		"Pull email out of the notification service so other channels fit.",
		"Address review comments on the pagination PR.",
		"Raise test coverage on the auth middleware.",
	})
	blockers := pick(rng, []string{
		"None.",
		"Waiting on staging database access.",
		"Flaky payment test keeps burning CI minutes.",
	})
	return "Standup", fmt.Sprintf("## Yesterday\n\n%s\n\n## Today\n\n%s\n\n## Blockers\n\n%s", yesterday, today, blockers)
}

func debugging(rng *rand.Rand) (string, string) {
	return "Bug hunt", pick(rng, []string{
		"Two workers claimed the same job under load. A missing row lock in the claim query. Added it plus a concurrent test.",
		"Intermittent 500s were an exhausted connection pool: one client call never closed its response body.",
		"pprof showed a fresh JSON encoder per request. Pooled them and memory dropped by more than half.",
	})
}
