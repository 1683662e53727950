package device42

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"d42inventory/internal/config"
	"d42inventory/internal/domain"
)

const sampleDevices = `{
  "Devices": [
    {
      "name": "SW01",
      "building": "DC1",
      "os": "ios-xe",
      "hw_model": "ASR1001",
      "manufacturer": "Cisco",
      "serial_no": "S1",
      "ip_addresses": [{"label": "management", "ip": "10.0.0.1"}],
      "custom_fields": [{"key": "AvailabilityZone", "value": "A"}]
    },
    {"name": "SW02", "building": null, "os": "eos"}
  ],
  "total_count": 2
}`

func testConfig(base string) config.Device42Config {
	return config.Device42Config{
		BaseURL:  base,
		Username: "admin",
		Password: "secret",
	}
}

func TestFetchAllDevices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, DevicesPath, r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "admin", user)
		assert.Equal(t, "secret", pass)

		assert.Empty(t, r.URL.RawQuery, "no pagination without page_size")
		fmt.Fprint(w, sampleDevices)
	}))
	defer srv.Close()

	client := NewClient(testConfig(srv.URL + "/"))
	devices, err := client.FetchAllDevices(context.Background())
	require.NoError(t, err)
	require.Len(t, devices, 2)

	first := devices[0]
	assert.Equal(t, "SW01", domain.Deref(first.Name))
	assert.Equal(t, "ASR1001", domain.Deref(first.HWModel))
	require.Len(t, first.IPAddresses, 1)
	assert.Equal(t, "10.0.0.1", first.IPAddresses[0].IP)
	require.Len(t, first.CustomFields, 1)
	assert.Equal(t, "A", first.CustomFields[0].Value)

	assert.Nil(t, devices[1].Building, "null building decodes to nil")
}

func TestFetchAllDevicesPaginated(t *testing.T) {
	const total = 5
	var calls atomic.Int32

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
		assert.Equal(t, 2, limit)

		page := domain.DeviceList{TotalCount: total, Limit: limit, Offset: offset}
		for i := offset; i < offset+limit && i < total; i++ {
			page.Devices = append(page.Devices, domain.DeviceRecord{
				Name: domain.String(fmt.Sprintf("dev%d", i)),
			})
		}
		json.NewEncoder(w).Encode(page)
	}))
	defer srv.Close()

	cfg := testConfig(srv.URL)
	cfg.PageSize = 2
	devices, err := NewClient(cfg).FetchAllDevices(context.Background())
	require.NoError(t, err)

	require.Len(t, devices, total)
	for i, d := range devices {
		assert.Equal(t, fmt.Sprintf("dev%d", i), domain.Deref(d.Name))
	}
	assert.Equal(t, int32(3), calls.Load())
}

func TestFetchAllDevicesEmptyPageStops(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		// total_count overstates what the server will actually return
		fmt.Fprint(w, `{"Devices": [], "total_count": 10}`)
	}))
	defer srv.Close()

	cfg := testConfig(srv.URL)
	cfg.PageSize = 100
	devices, err := NewClient(cfg).FetchAllDevices(context.Background())
	require.NoError(t, err)
	assert.Empty(t, devices)
	assert.Equal(t, int32(1), calls.Load())
}

func TestFetchAllDevicesErrors(t *testing.T) {
	t.Run("non-2xx status", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "bad credentials", http.StatusUnauthorized)
		}))
		defer srv.Close()

		_, err := NewClient(testConfig(srv.URL)).FetchAllDevices(context.Background())
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrUpstreamFetch))

		var fe *FetchError
		require.True(t, errors.As(err, &fe))
		assert.Equal(t, http.StatusUnauthorized, fe.StatusCode)
		assert.Equal(t, "bad credentials", fe.Body)
		assert.Contains(t, err.Error(), "401")
	})

	t.Run("malformed body", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"Devices": [`)
		}))
		defer srv.Close()

		_, err := NewClient(testConfig(srv.URL)).FetchAllDevices(context.Background())
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrUpstreamFetch)
		assert.Contains(t, err.Error(), "decode devices")
	})

	t.Run("unreachable", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		base := srv.URL
		srv.Close()

		_, err := NewClient(testConfig(base)).FetchAllDevices(context.Background())
		assert.ErrorIs(t, err, ErrUpstreamFetch)
	})

	t.Run("no base url", func(t *testing.T) {
		_, err := NewClient(testConfig("  ")).FetchAllDevices(context.Background())
		assert.ErrorIs(t, err, ErrUpstreamFetch)
	})

	t.Run("cancelled context", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, sampleDevices)
		}))
		defer srv.Close()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := NewClient(testConfig(srv.URL)).FetchAllDevices(ctx)
		assert.ErrorIs(t, err, ErrUpstreamFetch)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestInsecureSkipVerify(t *testing.T) {
	srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, sampleDevices)
	}))
	defer srv.Close()

	cfg := testConfig(srv.URL)
	_, err := NewClient(cfg).FetchAllDevices(context.Background())
	assert.Error(t, err, "self-signed certificate is rejected by default")

	cfg.InsecureSkipVerify = true
	devices, err := NewClient(cfg).FetchAllDevices(context.Background())
	require.NoError(t, err)
	assert.Len(t, devices, 2)
}

func TestSanitizeBaseURL(t *testing.T) {
	cases := map[string]string{
		"https://d42.example.com/":    "https://d42.example.com",
		" https://d42.example.com// ": "https://d42.example.com",
		"https://d42.example.com":     "https://d42.example.com",
	}
	for in, want := range cases {
		assert.Equal(t, want, sanitizeBaseURL(in), in)
	}
}
