package cmd

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/jmf-tools/jmf-cli/internal/api"
	"github.com/jmf-tools/jmf-cli/internal/urlparse"
)

func newArticleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "article",
		Aliases: []string{"articles", "a"},
		Short:   "Analyze Jianshu articles",
		Long: `Analyze an article. An article is a slug (0b8f4d4b3b6d) or a /p/ URL.

These commands always query the server: results depend on the article's
current state.`,
	}

	cmd.AddCommand(newArticleWordFreqCmd())
	cmd.AddCommand(newArticleLPCheckCmd())
	return cmd
}

// WordCount is one entry of the word frequency list.
type WordCount struct {
	Word  string `json:"word"`
	Count int    `json:"count"`
}

func newArticleWordFreqCmd() *cobra.Command {
	var top int

	cmd := &cobra.Command{
		Use:     "word-freq <article>",
		Aliases: []string{"wordcloud", "wf"},
		Short:   "Show the most frequent words of an article",
		Example: `  jmf article word-freq 0b8f4d4b3b6d
  jmf article word-freq https://www.jianshu.com/p/0b8f4d4b3b6d --top 10 -o json`,
		Args: cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			slug, err := urlparse.ArticleSlug(args[0])
			if err != nil {
				return err
			}
			if top < 0 {
				return fmt.Errorf("--top must be 0 or greater")
			}
			rt, err := newSession(cmd)
			if err != nil {
				return err
			}
			defer rt.Close()

			freq, err := trigger[api.WordFreq](cmd, rt, api.WordFreqRequest(slug))
			if err != nil {
				return err
			}
			words := rankWords(freq.WordFreq, top)

			if structured(cmd) {
				return printJSON(cmd, struct {
					Title string      `json:"title"`
					Words []WordCount `json:"words"`
				}{freq.Title, words})
			}

			w := newTabWriterFromCmd(cmd)
			defer func() { _ = w.Flush() }()
			_, _ = fmt.Fprintf(w, "Title:\t%s\n\n", freq.Title)
			_, _ = fmt.Fprintln(w, "WORD\tCOUNT")
			for _, wc := range words {
				_, _ = fmt.Fprintf(w, "%s\t%d\n", wc.Word, wc.Count)
			}
			return nil
		}),
	}

	cmd.Flags().IntVarP(&top, "top", "t", 20, "Number of words to show (0 = all)")
	return cmd
}

// rankWords orders words by count, most frequent first, ties by word.
func rankWords(freq map[string]int, top int) []WordCount {
	words := make([]WordCount, 0, len(freq))
	for word, count := range freq {
		words = append(words, WordCount{Word: word, Count: count})
	}
	slices.SortFunc(words, func(a, b WordCount) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return cmp.Compare(a.Word, b.Word)
	})
	if top > 0 && len(words) > top {
		words = words[:top]
	}
	return words
}

func newArticleLPCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "lp-check <article>",
		Aliases: []string{"lp-recommend-check", "lp"},
		Short:   "Check whether an article can be recommended to the LP collection",
		Example: `  jmf article lp-check 0b8f4d4b3b6d`,
		Args:    cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			slug, err := urlparse.ArticleSlug(args[0])
			if err != nil {
				return err
			}
			rt, err := newSession(cmd)
			if err != nil {
				return err
			}
			defer rt.Close()

			check, err := trigger[api.LPRecommendCheck](cmd, rt, api.LPRecommendCheckRequest(slug))
			if err != nil {
				return err
			}
			if structured(cmd) {
				return printJSON(cmd, check)
			}

			w := newTabWriterFromCmd(cmd)
			defer func() { _ = w.Flush() }()
			_, _ = fmt.Fprintf(w, "Title:\t%s\n", check.ArticleTitle)
			_, _ = fmt.Fprintf(w, "FP Reward:\t%.2f\n", check.FPReward)
			if check.CanRecommendNow {
				_, _ = fmt.Fprintf(w, "Recommend:\t%s\n", green("yes"))
			} else {
				_, _ = fmt.Fprintf(w, "Recommend:\t%s\n", red("no"))
				if check.NextCanRecommendDate != "" {
					_, _ = fmt.Fprintf(w, "Next Possible:\t%s\n", check.NextCanRecommendDate)
				}
			}
			return nil
		}),
	}
}
