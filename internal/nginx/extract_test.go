package nginx

import (
	"strings"
	"testing"
)

func TestExtractBlocks(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		keyword   string
		wantCount int
	}{
		{
			name:      "single server block",
			text:      "server {\n    listen 80;\n}\n",
			keyword:   "server",
			wantCount: 1,
		},
		{
			name:      "two server blocks",
			text:      "server {\n    listen 80;\n}\nserver {\n    listen 443 ssl;\n}\n",
			keyword:   "server",
			wantCount: 2,
		},
		{
			name:      "nested location does not split the server block",
			text:      "server {\n    location / {\n        try_files $uri =404;\n    }\n}\n",
			keyword:   "server",
			wantCount: 1,
		},
		{
			name:      "server_name is not a server keyword",
			text:      "http {\n    server_name example.com;\n}\n",
			keyword:   "server",
			wantCount: 0,
		},
		{
			name:      "empty input",
			text:      "",
			keyword:   "server",
			wantCount: 0,
		},
		{
			name:      "keyword without brace is a directive, not a block",
			text:      "server 127.0.0.1:8080;\n",
			keyword:   "server",
			wantCount: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			blocks := ExtractBlocks(tt.text, tt.keyword)
			if len(blocks) != tt.wantCount {
				t.Errorf("ExtractBlocks() returned %d blocks, want %d", len(blocks), tt.wantCount)
			}
		})
	}
}

func TestExtractBlocksUnbalanced(t *testing.T) {
	// The first block never closes; the second must still come back.
	text := "server {\n    listen 80;\n    location / {\n        root /var/www;\n}\n" +
		"server {\n    listen 8080;\n    root /srv/www;\n}\n"

	blocks := ExtractBlocks(text, "server")
	if len(blocks) != 1 {
		t.Fatalf("ExtractBlocks() returned %d blocks, want 1", len(blocks))
	}
	if !strings.Contains(blocks[0].Body, "8080") {
		t.Errorf("surviving block body = %q, want the second server block", blocks[0].Body)
	}
}

func TestExtractBlocksBody(t *testing.T) {
	text := "server {\n    listen 81;\n    server_name localhost;\n}\n"
	blocks := ExtractBlocks(text, "server")
	if len(blocks) != 1 {
		t.Fatalf("ExtractBlocks() returned %d blocks, want 1", len(blocks))
	}

	b := blocks[0]
	if !strings.Contains(b.Body, "listen 81;") {
		t.Errorf("Body = %q, want it to contain the listen directive", b.Body)
	}
	if strings.Contains(b.Body, "{") || strings.Contains(b.Body, "}") {
		t.Errorf("Body = %q, must exclude the braces", b.Body)
	}
	if got := b.Text(text); !strings.HasPrefix(got, "server") || !strings.HasSuffix(got, "}") {
		t.Errorf("Text() = %q, want the full span including keyword and braces", got)
	}
}

func TestExtractLocations(t *testing.T) {
	body := `
    listen 80;
    location / {
        try_files $uri =404;
    }
    location /api/ {
        proxy_pass http://localhost:3000;
    }
    location ~ \.php$ {
        fastcgi_pass 127.0.0.1:9000;
    }
`
	locations := ExtractLocations(body)
	if len(locations) != 3 {
		t.Fatalf("ExtractLocations() returned %d blocks, want 3", len(locations))
	}

	wantSelectors := []string{"/", "/api/", `~ \.php$`}
	for i, want := range wantSelectors {
		if locations[i].Selector != want {
			t.Errorf("location %d selector = %q, want %q", i, locations[i].Selector, want)
		}
	}
}
