package internal

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"campus-laundry-backend/config"
	"campus-laundry-backend/internal/api"
	"campus-laundry-backend/internal/engine"
	"campus-laundry-backend/internal/identity"
	"campus-laundry-backend/internal/model"
	"campus-laundry-backend/internal/store"
)

type reservationEnvelope struct {
	Success bool `json:"success"`
	Data    struct {
		Reservation model.Reservation `json:"reservation"`
	} `json:"data"`
}

type availabilityEnvelope struct {
	Success bool `json:"success"`
	Data    struct {
		Date     string                       `json:"date"`
		Machines []engine.MachineAvailability `json:"machines"`
	} `json:"data"`
}

func doJSON(t *testing.T, router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	var req *http.Request
	if body == "" {
		req, _ = http.NewRequest(method, path, nil)
	} else {
		req, _ = http.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	router.ServeHTTP(w, req)
	return w
}

// TestReservationLifecycle walks a booking through creation, the conflict
// rejection of a second booking for the same slot, availability
// projection, confirmation, and deletion, verifying the API responses and
// database state at each step.
func TestReservationLifecycle(t *testing.T) {
	testDB, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, _ := testDB.DB()
	defer sqlDB.Close()

	err = testDB.AutoMigrate(
		&model.User{},
		&model.Machine{},
		&model.Reservation{},
		&model.LostItem{},
		&model.PushSubscription{},
	)
	require.NoError(t, err)

	cfg := &config.Config{}
	cfg.Server.RateLimitPerSec = 1000
	cfg.Server.RateLimitBurst = 1000
	cfg.Server.CacheTTLSeconds = 1
	cfg.Booking.Location = time.UTC

	appStore := store.NewGormStore(testDB)
	resolver := identity.NewStoreResolver(appStore, identity.DefaultSeedUsers())
	router := api.NewRouter(cfg, appStore, resolver, nil, nil)

	// Seed the default eight-machine catalog through the API.
	w := doJSON(t, router, "GET", "/api/machines/init", "")
	require.Equal(t, http.StatusOK, w.Code)

	today := time.Now().UTC().Format("2006-01-02")
	createBody := fmt.Sprintf(`{"student_id":"demo","machine_id":3,"date":%q,"time":"10:00 AM"}`, today)

	var reservationID int64
	t.Run("Create a pending reservation", func(t *testing.T) {
		w := doJSON(t, router, "POST", "/api/reservations", createBody)
		require.Equal(t, http.StatusCreated, w.Code)

		var resp reservationEnvelope
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.True(t, resp.Success)
		assert.Equal(t, model.StatusPending, resp.Data.Reservation.Status)
		assert.Equal(t, 3, resp.Data.Reservation.MachineNo)
		assert.Equal(t, int64(1), resp.Data.Reservation.UserID)
		assert.Equal(t, 2*time.Hour, resp.Data.Reservation.EndTime.Sub(resp.Data.Reservation.StartTime))
		reservationID = resp.Data.Reservation.ID
		require.NotZero(t, reservationID)
	})

	t.Run("Second booking for the same slot is rejected", func(t *testing.T) {
		w := doJSON(t, router, "POST", "/api/reservations", createBody)
		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Contains(t, w.Body.String(), `"kind":"conflict"`)

		var count int64
		testDB.Model(&model.Reservation{}).Count(&count)
		assert.Equal(t, int64(1), count, "only the first committer's row may exist")
	})

	t.Run("Back-to-back slot on the same machine is accepted", func(t *testing.T) {
		body := fmt.Sprintf(`{"student_id":"demo","machine_id":3,"date":%q,"time":"12:00 PM"}`, today)
		w := doJSON(t, router, "POST", "/api/reservations", body)
		require.Equal(t, http.StatusCreated, w.Code)

		var resp reservationEnvelope
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

		// Remove it again so later availability checks only see one booking.
		w = doJSON(t, router, "DELETE", fmt.Sprintf("/api/reservations/%d", resp.Data.Reservation.ID), "")
		require.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Unknown machine number", func(t *testing.T) {
		body := fmt.Sprintf(`{"student_id":"demo","machine_id":99,"date":%q,"time":"10:00 AM"}`, today)
		w := doJSON(t, router, "POST", "/api/reservations", body)
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Contains(t, w.Body.String(), `"kind":"not_found"`)
	})

	t.Run("Unknown student id", func(t *testing.T) {
		body := fmt.Sprintf(`{"student_id":"000000","machine_id":3,"date":%q,"time":"10:00 AM"}`, today)
		w := doJSON(t, router, "POST", "/api/reservations", body)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("Availability reflects the booking", func(t *testing.T) {
		w := doJSON(t, router, "GET", "/api/reservations/availability", "")
		require.Equal(t, http.StatusOK, w.Code)

		var resp availabilityEnvelope
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.Len(t, resp.Data.Machines, 8)

		for _, ma := range resp.Data.Machines {
			for _, s := range ma.Slots {
				if ma.MachineNumber == 3 && s.Label == "10:00 AM" {
					assert.False(t, s.Available, "booked slot must project unavailable")
				} else {
					assert.True(t, s.Available, "machine %d slot %s", ma.MachineNumber, s.Label)
				}
			}
			assert.Equal(t, engine.MachineAvailable, ma.Status)
		}
	})

	t.Run("List annotates display numbers", func(t *testing.T) {
		w := doJSON(t, router, "GET", "/api/reservations", "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"machine_no":3`)
	})

	t.Run("Confirm is idempotent", func(t *testing.T) {
		body := fmt.Sprintf(`{"reservation_id":%d}`, reservationID)

		w := doJSON(t, router, "POST", "/api/reservations/confirm", body)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"status":"confirmed"`)

		w = doJSON(t, router, "POST", "/api/reservations/confirm", body)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Confirm on a missing reservation", func(t *testing.T) {
		w := doJSON(t, router, "POST", "/api/reservations/confirm", `{"reservation_id":424242}`)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("Delete enforces ownership", func(t *testing.T) {
		w := doJSON(t, router, "DELETE", fmt.Sprintf("/api/reservations/%d?user_id=2", reservationID), "")
		assert.Equal(t, http.StatusNotFound, w.Code, "non-owner must not see the row")

		w = doJSON(t, router, "DELETE", fmt.Sprintf("/api/reservations/%d?user_id=1", reservationID), "")
		require.Equal(t, http.StatusOK, w.Code)

		var count int64
		testDB.Model(&model.Reservation{}).Count(&count)
		assert.Equal(t, int64(0), count)
	})

	t.Run("Freed slot projects available again", func(t *testing.T) {
		w := doJSON(t, router, "GET", "/api/reservations/availability", "")
		require.Equal(t, http.StatusOK, w.Code)

		var resp availabilityEnvelope
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		for _, ma := range resp.Data.Machines {
			for _, s := range ma.Slots {
				assert.True(t, s.Available)
			}
		}
	})

	t.Run("Cleanup removes malformed durations", func(t *testing.T) {
		start := time.Date(2025, 8, 10, 9, 0, 0, 0, time.UTC)
		bad := model.Reservation{
			UserID:    1,
			MachineID: 1,
			StartTime: start,
			EndTime:   start.Add(1 * time.Hour),
			Status:    model.StatusPending,
		}
		require.NoError(t, testDB.Create(&bad).Error)

		w := doJSON(t, router, "POST", "/api/reservations/cleanup", "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Cleaned up 1 invalid reservations")

		var count int64
		testDB.Model(&model.Reservation{}).Count(&count)
		assert.Equal(t, int64(0), count)
	})
}

// TestAuthAndLostFoundFlow covers registration, login with a hashed
// password, and the lost-and-found report lifecycle.
func TestAuthAndLostFoundFlow(t *testing.T) {
	testDB, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, _ := testDB.DB()
	defer sqlDB.Close()

	err = testDB.AutoMigrate(&model.User{}, &model.Machine{}, &model.Reservation{}, &model.LostItem{}, &model.PushSubscription{})
	require.NoError(t, err)

	cfg := &config.Config{}
	cfg.Server.RateLimitPerSec = 1000
	cfg.Server.RateLimitBurst = 1000
	cfg.Server.CacheTTLSeconds = 1
	cfg.Booking.Location = time.UTC

	appStore := store.NewGormStore(testDB)
	resolver := identity.NewStoreResolver(appStore, identity.DefaultSeedUsers())
	router := api.NewRouter(cfg, appStore, resolver, nil, nil)

	registerBody := `{"student_id":"555333","password":"washing!","name":"New Student","email":"new@university.edu"}`

	t.Run("Register hashes the password", func(t *testing.T) {
		w := doJSON(t, router, "POST", "/api/auth/register", registerBody)
		require.Equal(t, http.StatusCreated, w.Code)

		var user model.User
		require.NoError(t, testDB.Where("student_id = ?", "555333").First(&user).Error)
		assert.True(t, strings.HasPrefix(user.Password, "$2"), "stored password must be a bcrypt hash")
	})

	t.Run("Duplicate registration", func(t *testing.T) {
		w := doJSON(t, router, "POST", "/api/auth/register", registerBody)
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("Login with registered account", func(t *testing.T) {
		w := doJSON(t, router, "POST", "/api/auth/login", `{"student_id":"555333","password":"washing!"}`)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "mock-jwt-token")
	})

	t.Run("Login with wrong password", func(t *testing.T) {
		w := doJSON(t, router, "POST", "/api/auth/login", `{"student_id":"555333","password":"nope"}`)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Login with seed demo account", func(t *testing.T) {
		w := doJSON(t, router, "POST", "/api/auth/login", `{"student_id":"demo","password":"demo"}`)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	var itemID int64
	t.Run("Report a lost item", func(t *testing.T) {
		w := doJSON(t, router, "POST", "/api/lostfound/report",
			`{"item_name":"Blue hoodie","description":"Left on machine 4","location_found":"Dorm A"}`)
		require.Equal(t, http.StatusCreated, w.Code)

		var resp struct {
			Data struct {
				Item model.LostItem `json:"item"`
			} `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		itemID = resp.Data.Item.ID
		require.NotZero(t, itemID)
		assert.Equal(t, model.LostItemActive, resp.Data.Item.Status)
		assert.NotEmpty(t, resp.Data.Item.DateFound)
	})

	t.Run("Future found date is rejected", func(t *testing.T) {
		future := time.Now().UTC().AddDate(0, 0, 2).Format("2006-01-02")
		w := doJSON(t, router, "POST", "/api/lostfound/report",
			fmt.Sprintf(`{"item_name":"Sock","description":"Single sock","location_found":"Basement","date_found":%q}`, future))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("List reports", func(t *testing.T) {
		w := doJSON(t, router, "GET", "/api/lostfound/reports", "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Blue hoodie")
	})

	t.Run("Update status then delete", func(t *testing.T) {
		w := doJSON(t, router, "PUT", fmt.Sprintf("/api/lostfound/%d/status", itemID), `{"status":"claimed"}`)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"status":"claimed"`)

		w = doJSON(t, router, "PUT", fmt.Sprintf("/api/lostfound/%d/status", itemID), `{"status":"lost-forever"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)

		w = doJSON(t, router, "DELETE", fmt.Sprintf("/api/lostfound/%d", itemID), "")
		require.Equal(t, http.StatusOK, w.Code)

		w = doJSON(t, router, "GET", fmt.Sprintf("/api/lostfound/%d", itemID), "")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
