package batodl

import (
	"bytes"
	"context"
	"crypto/aes"
	stdcipher "crypto/cipher"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"testing"

	"github.com/batoget/batodl/bato/cipher"
	"github.com/batoget/batodl/bato/site"
	"github.com/batoget/batodl/errs"
	"github.com/batoget/batodl/evaluator"
	"github.com/batoget/batodl/types"
)

// siteFor points a default profile at a test server so URL validation
// accepts its host and built URLs use its plain-http scheme.
func siteFor(t *testing.T, server *httptest.Server) *site.Profile {
	t.Helper()
	u, err := url.Parse(server.URL)
	if err != nil {
		t.Fatalf("parse server url: %v", err)
	}
	p := site.Default()
	p.Scheme = u.Scheme
	p.Domain = u.Host
	p.Mirrors = nil
	return p
}

// encryptWord builds an encoded word as the site would for the given
// fragment JSON, password and salt.
func encryptWord(t *testing.T, plaintext, password string, salt []byte) string {
	t.Helper()
	key, iv, err := cipher.DeriveKeyIV([]byte(password), salt, 32, 16)
	if err != nil {
		t.Fatalf("derive: %v", err)
	}
	pad := aes.BlockSize - len(plaintext)%aes.BlockSize
	padded := append([]byte(plaintext), bytes.Repeat([]byte{byte(pad)}, pad)...)
	block, err := aes.NewCipher(key)
	if err != nil {
		t.Fatalf("new cipher: %v", err)
	}
	ciphertext := make([]byte, len(padded))
	stdcipher.NewCBCEncrypter(block, iv).CryptBlocks(ciphertext, padded)
	raw := append([]byte("Salted__"), salt...)
	raw = append(raw, ciphertext...)
	return base64.StdEncoding.EncodeToString(raw)
}

func chapterPageHTML(baseURLs, word string) string {
	return fmt.Sprintf(`<html><body><script>
const imgHttps = %s;
const batoPass = "test-password";
const batoWord = "%s";
</script></body></html>`, baseURLs, word)
}

const listingHTML = `<html><body><div id="series-list">
<div class="col item">
  <a class="item-cover" href="/series/1/alpha"><img src="/covers/1.jpg"></a>
  <div><a class="item-title" href="/series/1/alpha">Alpha</a></div>
</div>
</div></body></html>`

func TestGetList(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/browse" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if got := r.URL.Query().Get("sort"); got != "update.za" {
			t.Errorf("sort = %q", got)
		}
		_, _ = w.Write([]byte(listingHTML))
	}))
	defer server.Close()

	l := New().WithSite(siteFor(t, server))
	mangas, err := l.GetList(context.Background(), 1, "update.za")
	if err != nil {
		t.Fatalf("get list: %v", err)
	}
	if len(mangas) != 1 || mangas[0].Title != "Alpha" {
		t.Fatalf("mangas = %+v", mangas)
	}
}

func TestGetListInvalidInput(t *testing.T) {
	l := New()
	if _, err := l.GetList(context.Background(), 0, "update.za"); !errors.Is(err, errs.ErrInvalidInput) {
		t.Errorf("bad page err = %v", err)
	}
	if _, err := l.GetList(context.Background(), 1, "bogus"); !errors.Is(err, errs.ErrInvalidInput) {
		t.Errorf("bad order err = %v", err)
	}
}

func TestSearch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("word"); got != "alpha beta" {
			t.Errorf("word = %q", got)
		}
		_, _ = w.Write([]byte(listingHTML))
	}))
	defer server.Close()

	l := New().WithSite(siteFor(t, server))
	mangas, err := l.Search(context.Background(), "alpha beta", 1)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(mangas) != 1 {
		t.Fatalf("mangas = %+v", mangas)
	}

	if _, err := l.Search(context.Background(), "  ", 1); !errors.Is(err, errs.ErrInvalidInput) {
		t.Errorf("empty query err = %v", err)
	}
}

func TestGetPages(t *testing.T) {
	var server *httptest.Server
	server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		base0 := server.URL + "/img/1.jpg"
		base1 := server.URL + "/img/2.jpg"
		word := encryptWord(t, `["x=1",""]`, "test-password", []byte("saltsalt"))
		page := chapterPageHTML(fmt.Sprintf(`["%s","%s"]`, base0, base1), word)
		_, _ = w.Write([]byte(page))
	}))
	defer server.Close()

	l := New().
		WithSite(siteFor(t, server)).
		WithEvaluator(evaluator.Static("test-password"))

	pages, err := l.GetPages(context.Background(), server.URL+"/chapter/42")
	if err != nil {
		t.Fatalf("get pages: %v", err)
	}
	if len(pages) != 2 {
		t.Fatalf("pages = %d, want 2", len(pages))
	}
	if pages[0].URL != server.URL+"/img/1.jpg?x=1" {
		t.Errorf("page 0 = %q", pages[0].URL)
	}
	if pages[1].URL != server.URL+"/img/2.jpg" {
		t.Errorf("page 1 = %q", pages[1].URL)
	}
	if pages[0].ID == "" || pages[0].ID == pages[1].ID {
		t.Errorf("page ids = %q, %q", pages[0].ID, pages[1].ID)
	}
}

func TestGetPagesRelativeURL(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		word := encryptWord(t, `[]`, "test-password", []byte("saltsalt"))
		_, _ = w.Write([]byte(chapterPageHTML(`["https://cdn.example/1.jpg"]`, word)))
	}))
	defer server.Close()

	l := New().WithSite(siteFor(t, server)).WithEvaluator(evaluator.Static("test-password"))

	pages, err := l.GetPages(context.Background(), "/chapter/42")
	if err != nil {
		t.Fatalf("get pages from relative url: %v", err)
	}
	if len(pages) != 1 || pages[0].URL != "https://cdn.example/1.jpg" {
		t.Fatalf("pages = %+v", pages)
	}

	if _, err := l.GetPages(context.Background(), "/series/1"); !errors.Is(err, errs.ErrInvalidInput) {
		t.Errorf("series path accepted as chapter: %v", err)
	}
}

func TestGetPagesWrongDomain(t *testing.T) {
	l := New()
	_, err := l.GetPages(context.Background(), "https://evil.example/chapter/1")
	if !errors.Is(err, errs.ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput", err)
	}
}

func TestGetDetails(t *testing.T) {
	detailsHTML := `<html><body><div id="mainer">
<h3 class="item-title"><a href="/series/1/alpha">Alpha Prime</a></h3>
<div class="detail-set"></div>
<div class="episode-list"><div class="main">
<div><a class="chapt" href="/chapter/2">Chapter 2</a></div>
<div><a class="chapt" href="/chapter/1">Chapter 1</a></div>
</div></div>
</div></body></html>`

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(detailsHTML))
	}))
	defer server.Close()

	l := New().WithSite(siteFor(t, server))
	manga, err := l.GetDetails(context.Background(), types.Manga{Title: "Alpha", URL: server.URL + "/series/1/alpha"})
	if err != nil {
		t.Fatalf("get details: %v", err)
	}
	if manga.Title != "Alpha Prime" {
		t.Errorf("title = %q", manga.Title)
	}
	if manga.ChapterCount != 2 {
		t.Fatalf("chapter count = %d", manga.ChapterCount)
	}
	if manga.Chapters[0].URL != "/chapter/1" || manga.Chapters[0].Number != 1 {
		t.Errorf("chapter[0] = %+v", manga.Chapters[0])
	}
}

func TestDownloadChapter(t *testing.T) {
	var server *httptest.Server
	server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/chapter/42":
			word := encryptWord(t, `[]`, "test-password", []byte("saltsalt"))
			page := chapterPageHTML(fmt.Sprintf(`["%s/img/1.jpg"]`, server.URL), word)
			_, _ = w.Write([]byte(page))
		case r.URL.Path == "/img/1.jpg":
			w.Header().Set("Content-Type", "image/jpeg")
			_, _ = w.Write([]byte("image-bytes"))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	dir := t.TempDir()
	l := New().
		WithSite(siteFor(t, server)).
		WithEvaluator(evaluator.Static("test-password"))

	written, err := l.DownloadChapter(context.Background(), server.URL+"/chapter/42", dir)
	if err != nil {
		t.Fatalf("download chapter: %v", err)
	}
	if len(written) != 1 || filepath.Base(written[0]) != "001.jpg" {
		t.Fatalf("written = %v", written)
	}
	data, err := os.ReadFile(written[0])
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(data) != "image-bytes" {
		t.Errorf("data = %q", data)
	}
}

func TestDownloadChapterNoPages(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		word := encryptWord(t, `[]`, "test-password", []byte("saltsalt"))
		_, _ = w.Write([]byte(chapterPageHTML(`[]`, word)))
	}))
	defer server.Close()

	l := New().
		WithSite(siteFor(t, server)).
		WithEvaluator(evaluator.Static("test-password"))

	_, err := l.DownloadChapter(context.Background(), server.URL+"/chapter/42", t.TempDir())
	if !errors.Is(err, errs.ErrNoPages) {
		t.Fatalf("err = %v, want ErrNoPages", err)
	}
}

func TestLoaderChainableSetters(t *testing.T) {
	l := New().
		WithEvaluator(evaluator.Static("pw")).
		WithRateLimit(-1).
		WithProgress(nil)
	if l.rateLimitBps != 0 {
		t.Errorf("rate limit = %d, want clamped to 0", l.rateLimitBps)
	}
	if l.Site().Domain != "bato.to" {
		t.Errorf("domain = %q", l.Site().Domain)
	}
}
