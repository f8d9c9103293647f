package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/chrissnell/watchface/pkg/fuzzy"
)

func main() {
	var (
		timeStr = flag.String("time", "", "Time to describe (15:04, default now)")
		lang    = flag.String("lang", "en", "Phrase table language (en, ca, es, it, de)")
		variant = flag.String("variant", "sector", "Phrase style: 'sector' (five minute steps) or 'nearly'")
		all     = flag.Bool("all", false, "Print a phrase for every five minutes of one hour")
	)
	flag.Parse()

	table, err := fuzzy.ParseTable(*lang)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing language: %v\n", err)
		os.Exit(1)
	}
	v, err := fuzzy.ParseVariant(*variant)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	f := fuzzy.New(v, table)

	t := time.Now()
	if *timeStr != "" {
		t, err = time.Parse("15:04", *timeStr)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing time: %v\n", err)
			os.Exit(1)
		}
	}

	if *all {
		for m := 0; m < 60; m += 5 {
			fmt.Printf("%02d:%02d  %s\n", t.Hour(), m, f.Format(t.Hour(), m))
		}
		return
	}

	fmt.Printf("%02d:%02d  %s\n", t.Hour(), t.Minute(), f.Format(t.Hour(), t.Minute()))
}
