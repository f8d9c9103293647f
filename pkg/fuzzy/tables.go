package fuzzy

import "golang.org/x/text/language"

// Table holds the words for one language. Sectors are indexed by five-minute
// sector and carry a %0 (current hour) or %1 (next hour) placeholder. Hours is
// indexed by hour%12 so index 0 names twelve o'clock.
type Table struct {
	Tag     language.Tag
	Sectors [12]string
	Hours   [12]string

	// Words used by the nearly variant. Tables that leave them empty fall
	// back to English for that variant.
	Past   [7]string
	Nearly string
	OClock string
	PastW  string
	ToW    string
}

func (t *Table) hasNearly() bool {
	return t.OClock != ""
}

// English is the default table.
var English = Table{
	Tag: language.English,
	Sectors: [12]string{
		"%0\no'clock",
		"five past\n%0",
		"ten past\n%0",
		"quarter\npast\n%0",
		"twenty\npast\n%0",
		"twenty\nfive past\n%0",
		"half past\n%0",
		"twenty\nfive to\n%1",
		"twenty\nto %1",
		"quarter\nto %1",
		"ten to\n%1",
		"five to\n%1",
	},
	Hours: [12]string{
		"twelve", "one", "two", "three", "four", "five",
		"six", "seven", "eight", "nine", "ten", "eleven",
	},
	Past:   [7]string{"", "five", "ten", "quarter", "twenty", "twenty five", "half"},
	Nearly: "nearly",
	OClock: "o'clock",
	PastW:  "past",
	ToW:    "to",
}

var Catalan = Table{
	Tag: language.Catalan,
	Sectors: [12]string{
		"%0\nen punt",
		"%0\ni cinc",
		"%0\ni deu",
		"%0\ni quart",
		"%0\ni vint",
		"%0\ni vint-\ni-cinc",
		"%0\ni mitja",
		"%1\nmenys\nvint-\ni-cinc",
		"%1\nmenys\nvint",
		"%1\nmenys\nquart",
		"%1\nmenys deu",
		"%1\nmenys\ncinc",
	},
	Hours: [12]string{
		"les dotze", "la una", "les dues", "les tres", "les\nquatre", "les cinc",
		"les sis", "les set", "les vuit", "les nou", "les deu", "les onze",
	},
}

var Spanish = Table{
	Tag: language.Spanish,
	Sectors: [12]string{
		"%0\nen punto",
		"%0\ny cinco",
		"%0\ny diez",
		"%0\ny cuarto",
		"%0\ny veinte",
		"%0\ny veinti\ncinco",
		"%0\ny media",
		"%1\nmenos\nveinti\ncinco",
		"%1\nmenos\nveinte",
		"%1\nmenos\ncuarto",
		"%1\nmenos\ndiez",
		"%1\nmenos\ncinco",
	},
	Hours: [12]string{
		"las doce", "la una", "las dos", "las tres", "las\ncuatro", "las cinco",
		"las seis", "las siete", "las ocho", "las nueve", "las diez", "las once",
	},
}

var Italian = Table{
	Tag: language.Italian,
	Sectors: [12]string{
		"%0\nin punto",
		"%0 e cinque",
		"%0 e dieci",
		"%0 e un quarto",
		"%0 e venti",
		"%0 e venti cinque",
		"%0 e mezza",
		"%0 e trenta cinque",
		"%1 meno venti",
		"%1 meno un quarto",
		"%1 meno dieci",
		"%1 meno cinque",
	},
	Hours: [12]string{
		"dodici", "una", "due", "tre", "quattro", "cinque",
		"sei", "sette", "otto", "nove", "dieci", "undici",
	},
}

var German = Table{
	Tag: language.German,
	Sectors: [12]string{
		"%0 Uhr",
		"Fünf nach %0",
		"Zehn nach %0",
		"Viertel nach %0",
		"Zwanzig nach %0",
		"Fünf vor halb %1",
		"Halb %1",
		"Fünf nach halb %1",
		"Zwanzig vor %1",
		"Viertel vor %1",
		"Zehn vor %1",
		"Fünf vor %1",
	},
	Hours: [12]string{
		"Zwölf", "Eins", "Zwei", "Drei", "Vier", "Fünf",
		"Sechs", "Sieben", "Acht", "Neun", "Zehn", "Elf",
	},
}

var tables = []*Table{&English, &Catalan, &Spanish, &Italian, &German}

var matcher = func() language.Matcher {
	tags := make([]language.Tag, len(tables))
	for i, t := range tables {
		tags[i] = t.Tag
	}
	return language.NewMatcher(tags)
}()

// TableFor returns the table that best matches tag, or English when nothing
// matches.
func TableFor(tag language.Tag) *Table {
	_, idx, confidence := matcher.Match(tag)
	if confidence == language.No {
		return &English
	}
	return tables[idx]
}

// ParseTable resolves a BCP 47 language string such as "es-ES" to a table.
func ParseTable(lang string) (*Table, error) {
	if lang == "" {
		return &English, nil
	}
	tag, err := language.Parse(lang)
	if err != nil {
		return nil, err
	}
	return TableFor(tag), nil
}
