package scraper

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/chromedp/chromedp"
	"go.uber.org/zap"
)

const (
	pageLoadTimeout = 30 * time.Second
	settleDelay     = 2 * time.Second
)

// Job boards render descriptions client-side, so pages are loaded in a
// headless browser and read from the first selector that has text.
var (
	boardSelectors = map[string][]string{
		"linkedin.com": {
			`.jobs-description-content__text`,
			`.show-more-less-html__markup`,
			`.jobs-box__html-content`,
			`#job-details`,
			`.description__text`,
		},
		"glassdoor.com": {
			`[class*="JobDetails_jobDescription"]`,
			`.jobDescriptionContent`,
			`#JobDescriptionContainer`,
		},
		"greenhouse.io": {`#content`, `.job__description`},
		"lever.co":      {`.section-wrapper.page-full-width`, `.content`},
		"startup.jobs":  {`.job-description`},
	}

	genericSelectors = []string{
		`.job-description`,
		`[class*='description']`,
		`article`,
		`.content`,
		`main`,
	}

	showMoreSelectors = []string{
		`button[aria-label*="Show more"]`,
		`button[aria-label*="see more"]`,
		`.show-more-less-html__button`,
		`button.jobs-description__footer-button`,
	}
)

// Selectors returns the description selectors to try for a posting URL,
// board-specific ones first
func Selectors(postingURL string) []string {
	u, err := url.Parse(postingURL)
	if err != nil {
		return genericSelectors
	}
	host := strings.ToLower(u.Hostname())
	for board, sels := range boardSelectors {
		if host == board || strings.HasSuffix(host, "."+board) {
			return append(append([]string{}, sels...), genericSelectors...)
		}
	}
	return genericSelectors
}

// ValidateURL accepts absolute http(s) URLs only
func ValidateURL(postingURL string) error {
	u, err := url.Parse(postingURL)
	if err != nil {
		return fmt.Errorf("invalid job URL: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid job URL %q: must be an http(s) link", postingURL)
	}
	return nil
}

var (
	blankRuns = regexp.MustCompile(`\n{3,}`)
	spaceRuns = regexp.MustCompile(`[ \t]+`)
)

// CleanDescription collapses whitespace left over from page markup
func CleanDescription(text string) string {
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(spaceRuns.ReplaceAllString(line, " "))
	}
	return strings.TrimSpace(blankRuns.ReplaceAllString(strings.Join(lines, "\n"), "\n\n"))
}

// createBrowserContext creates a headless browser context
func createBrowserContext(parent context.Context, logger *zap.Logger) (context.Context, context.CancelFunc) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.UserAgent("Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"),
	)

	allocCtx, cancel := chromedp.NewExecAllocator(parent, opts...)
	ctx, cancel2 := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(format string, v ...interface{}) {
		msg := fmt.Sprintf(format, v...)
		// cdproto lags behind Chrome; unknown enum values are noise
		if strings.Contains(msg, "could not unmarshal event") ||
			strings.Contains(msg, "unknown PrivateNetworkRequestPolicy") ||
			strings.Contains(msg, "unknown ClientNavigationReason") {
			return
		}
		logger.Debug("chromedp", zap.String("message", msg))
	}))

	return ctx, func() {
		cancel2()
		cancel()
	}
}

// FetchDescription loads a job posting and returns its description text
func FetchDescription(ctx context.Context, postingURL string, logger *zap.Logger) (string, error) {
	if err := ValidateURL(postingURL); err != nil {
		return "", err
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	ctx, cancel := context.WithTimeout(ctx, pageLoadTimeout)
	defer cancel()
	browserCtx, closeBrowser := createBrowserContext(ctx, logger)
	defer closeBrowser()

	var description string
	err := chromedp.Run(browserCtx,
		chromedp.Navigate(postingURL),
		chromedp.Sleep(settleDelay),
		chromedp.ActionFunc(func(ctx context.Context) error {
			// Expand collapsed descriptions where the board has a toggle
			for _, sel := range showMoreSelectors {
				var nodes int
				if err := chromedp.Evaluate(fmt.Sprintf(`document.querySelectorAll(%q).length`, sel), &nodes).Do(ctx); err == nil && nodes > 0 {
					_ = chromedp.Click(sel, chromedp.ByQuery).Do(ctx)
				}
			}
			return nil
		}),
		chromedp.ActionFunc(func(ctx context.Context) error {
			for _, sel := range Selectors(postingURL) {
				var text string
				js := fmt.Sprintf(`(document.querySelector(%q) || {}).innerText || ""`, sel)
				if err := chromedp.Evaluate(js, &text).Do(ctx); err == nil && strings.TrimSpace(text) != "" {
					logger.Debug("found job description", zap.String("selector", sel))
					description = text
					return nil
				}
			}
			return nil
		}),
	)
	if err != nil {
		return "", fmt.Errorf("failed to load %s: %w", postingURL, err)
	}

	description = CleanDescription(description)
	if description == "" {
		return "", fmt.Errorf("no job description found at %s", postingURL)
	}
	return description, nil
}
