package imgsrc

import (
	"context"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestParams_Encode(t *testing.T) {
	tests := []struct {
		name   string
		params Params
		want   string
	}{
		{
			name:   "empty",
			params: nil,
			want:   "",
		},
		{
			name:   "order preserved",
			params: Params{{"login", "bob"}, {"passwd", "abc"}, {"album_id", "42"}},
			want:   "login=bob&passwd=abc&album_id=42",
		},
		{
			name:   "no escaping of reserved characters",
			params: Params{{"create", "a/b:c+d%e"}},
			want:   "create=a/b:c+d%e",
		},
		{
			name:   "high bytes sent raw",
			params: Params{{"create", "\xce\xf2"}},
			want:   "create=\xce\xf2",
		},
		{
			name:   "request line breakers escaped",
			params: Params{{"create", "my trip#1\n"}},
			want:   "create=my%20trip%231%0A",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.params.Encode(); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestParams_Add(t *testing.T) {
	base := Params{{"a", "1"}}
	extended := base.Add("b", "2")

	if got := extended.Encode(); got != "a=1&b=2" {
		t.Errorf("expected a=1&b=2, got %q", got)
	}
}

func TestHTTPTransport(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/cli/post.php" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.URL.RawQuery != "login=bob&album_id=1" {
			t.Errorf("unexpected query %q", r.URL.RawQuery)
		}
		if ua := r.Header.Get("User-Agent"); ua != "imgsrc-test" {
			t.Errorf("unexpected user agent %q", ua)
		}

		switch r.Method {
		case http.MethodPost:
			if ct := r.Header.Get("Content-Type"); ct != "text/plain" {
				t.Errorf("unexpected content type %q", ct)
			}
			body, _ := io.ReadAll(r.Body)
			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write(append([]byte("echo:"), body...))
		default:
			_, _ = w.Write([]byte("get"))
		}
	}))
	defer server.Close()

	host := strings.TrimPrefix(server.URL, "http://")
	transport := NewHTTPTransport(host, HTTPTransportConfig{UserAgent: "imgsrc-test"})

	if transport.Host() != host {
		t.Errorf("expected host %q, got %q", host, transport.Host())
	}

	params := Params{{"login", "bob"}, {"album_id", "1"}}

	resp, err := transport.Get(context.Background(), "cli/post.php", params)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if resp.StatusCode != http.StatusOK || string(resp.Body) != "get" {
		t.Errorf("unexpected get response: %d %q", resp.StatusCode, resp.Body)
	}

	resp, err = transport.Post(context.Background(), "/cli/post.php", params, []byte("payload"), "text/plain")
	if err != nil {
		t.Fatalf("post failed: %v", err)
	}
	if resp.StatusCode != http.StatusCreated || string(resp.Body) != "echo:payload" {
		t.Errorf("unexpected post response: %d %q", resp.StatusCode, resp.Body)
	}
}

func TestHTTPTransport_ConnectionError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	host := strings.TrimPrefix(server.URL, "http://")
	server.Close()

	transport := NewHTTPTransport(host, HTTPTransportConfig{})
	if _, err := transport.Get(context.Background(), "cli/info.php", nil); err == nil {
		t.Error("expected error for closed server")
	}
}

// TestClient_EndToEnd drives login, create and upload through the default
// HTTP transport. All hosts resolve to one test server.
func TestClient_EndToEnd(t *testing.T) {
	var storageHits int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Host == "imgsrc.test" && r.URL.Path == "/cli/info.php":
			if strings.Contains(r.URL.RawQuery, "create=Beach") {
				_, _ = w.Write([]byte(`<info proto="0.8"><status>OK</status><store>3</store><albums><album id="42"><name>Trip</name><photos>5</photos></album><album id="43"><name>Beach</name><photos>0</photos></album></albums></info>`))
				return
			}
			_, _ = w.Write([]byte(`<info proto="0.8"><status>OK</status><store>3</store><albums><album id="42"><name>Trip</name><photos>5</photos></album></albums></info>`))
		case r.Host == "e3.imgsrc.test" && r.URL.Path == "/cli/post.php":
			storageHits++
			if id := r.URL.Query().Get("album_id"); id != "43" {
				t.Errorf("unexpected album id %q", id)
			}
			body, _ := io.ReadAll(r.Body)
			if !strings.Contains(string(body), `filename="sunset.jpg"`) {
				t.Errorf("unexpected body %q", body)
			}
			_, _ = w.Write([]byte(`<info proto="0.8"><status>OK</status><uploads><photo id="900"><page>http://imgsrc.test/900</page></photo></uploads></info>`))
		default:
			t.Errorf("unexpected request %s %s", r.Host, r.URL)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	addr := strings.TrimPrefix(server.URL, "http://")
	httpClient := &http.Client{
		Transport: &http.Transport{
			DialContext: func(ctx context.Context, network, _ string) (net.Conn, error) {
				var d net.Dialer
				return d.DialContext(ctx, network, addr)
			},
		},
	}

	client, err := NewClient(Config{
		Username:    "alice",
		PasswordMD5: HashPassword("secret"),
		RootHost:    "imgsrc.test",
		HTTPClient:  httpClient,
	})
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}

	ctx := context.Background()
	if _, err := client.Login(ctx); err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if client.StorageHost() != "e3.imgsrc.test" {
		t.Errorf("unexpected storage host %q", client.StorageHost())
	}

	album, err := client.GetOrCreateAlbum(ctx, "Beach", AlbumOptions{})
	if err != nil {
		t.Fatalf("get or create failed: %v", err)
	}

	file := writeFile(t, t.TempDir(), "sunset.jpg", []byte("jpeg"))
	if err := client.Upload(ctx, "Beach", []string{file}); err != nil {
		t.Fatalf("upload failed: %v", err)
	}

	if storageHits != 1 {
		t.Errorf("expected 1 storage request, got %d", storageHits)
	}
	if album.Size != 1 || len(album.Photos) != 1 || album.Photos[0].ID != "900" {
		t.Errorf("unexpected album after upload: %+v", album)
	}
}

func TestHashPassword(t *testing.T) {
	if got := HashPassword("password"); got != "5f4dcc3b5aa765d61d8327deb882cf99" {
		t.Errorf("unexpected digest %q", got)
	}
}
