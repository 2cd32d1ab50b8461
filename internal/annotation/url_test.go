package annotation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const urlFixture = `url,status,response_code,final_url,error_message,is_wbdg,check_certainty
http://example.com,FAIL,404,http://example.com,Not Found,False,high
https://www.wbdg.org/ffc/dod,PASS,200,https://www.wbdg.org/ffc/dod,,True,high
www.archive.org,WARN_WBDG_CONTENT_ERROR,200,https://archive.org,,False,medium
mailto:info@example.org,EMAIL,,mailto:info@example.org,,False,high
`

func loadURLProvider(t *testing.T) *URLProvider {
	t.Helper()
	p := NewURLProvider()
	require.NoError(t, p.LoadData(writeCSV(t, "urls.csv", urlFixture)))
	return p
}

func TestURLProviderLoadData(t *testing.T) {
	p := loadURLProvider(t)

	assert.Equal(t, []string{"EMAIL", "FAIL", "PASS", "WARN_WBDG_CONTENT_ERROR"}, p.Categories())
	assert.Equal(t, p.Categories(), p.EnabledCategories())
	assert.Equal(t, map[string]int{
		"EMAIL":                   1,
		"FAIL":                    1,
		"PASS":                    1,
		"WARN_WBDG_CONTENT_ERROR": 1,
	}, p.Stats())
}

func TestURLProviderFindInText(t *testing.T) {
	p := loadURLProvider(t)

	tests := []struct {
		name     string
		text     string
		wantURLs []string
	}{
		{
			name:     "absolute url",
			text:     "see http://example.com for details",
			wantURLs: []string{"http://example.com"},
		},
		{
			name:     "trailing punctuation stripped",
			text:     "listed at http://example.com.",
			wantURLs: []string{"http://example.com"},
		},
		{
			name:     "www domain",
			text:     "archived at www.archive.org today",
			wantURLs: []string{"www.archive.org"},
		},
		{
			name:     "mailto link",
			text:     "contact mailto:info@example.org please",
			wantURLs: []string{"mailto:info@example.org"},
		},
		{
			name:     "unknown url ignored",
			text:     "https://unknown.invalid/page",
			wantURLs: nil,
		},
		{
			name:     "empty text",
			text:     "",
			wantURLs: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := p.FindInText(tt.text)
			require.NoError(t, err)

			var urls []string
			seen := make(map[string]bool)
			for _, a := range got {
				if !seen[a.Text] {
					urls = append(urls, a.Text)
					seen[a.Text] = true
				}
				assert.Equal(t, KindURLValidation, a.Kind)
			}
			assert.Equal(t, tt.wantURLs, urls)
		})
	}
}

func TestURLProviderStatusFiltering(t *testing.T) {
	p := loadURLProvider(t)

	// Disabling FAIL removes the failing URL from detection entirely.
	p.SetCategoryEnabled("FAIL", false)
	got, err := p.FindInText("see http://example.com for details")
	require.NoError(t, err)
	assert.Empty(t, got)

	p.SetCategoryEnabled("FAIL", true)
	got, err = p.FindInText("see http://example.com for details")
	require.NoError(t, err)
	require.NotEmpty(t, got)
	assert.Equal(t, "FAIL", got[0].Category)
}

func TestURLProviderMetadata(t *testing.T) {
	p := loadURLProvider(t)

	got, err := p.FindInText("http://example.com")
	require.NoError(t, err)
	require.NotEmpty(t, got)

	a := got[0]
	assert.Equal(t, "404", a.Metadata["response_code"])
	assert.Equal(t, "Not Found", a.Metadata["error_message"])
	assert.Equal(t, "False", a.Metadata["is_wbdg"])
	assert.Equal(t, "high", a.Metadata["check_certainty"])
	assert.Equal(t, ColorForStatus("FAIL"), a.Color)
}

func TestURLProviderAtomicReload(t *testing.T) {
	p := loadURLProvider(t)

	err := p.LoadData(writeCSV(t, "bad.csv", "url,status\nhttp://x.com,FAIL\n"))
	var loadErr *DatasetLoadError
	require.ErrorAs(t, err, &loadErr)

	// Prior dataset still answers.
	got, err := p.FindInText("http://example.com")
	require.NoError(t, err)
	assert.NotEmpty(t, got)
}

func TestColorForStatus(t *testing.T) {
	tests := []struct {
		status string
		want   string
	}{
		{"PASS", "#00AA00"},
		{"FAIL", "#CC0000"},
		{"EMAIL", "#0066CC"},
		{"SOMETHING_ELSE", "#808080"},
	}

	for _, tt := range tests {
		if got := ColorForStatus(tt.status); got != tt.want {
			t.Errorf("ColorForStatus(%q) = %q, want %q", tt.status, got, tt.want)
		}
	}
}
