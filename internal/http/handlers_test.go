package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/example/room-reservation/internal/application"
	"github.com/example/room-reservation/internal/booking"
	"github.com/example/room-reservation/internal/calendar"
)

type fakeAuthService struct {
	session  application.Session
	user     application.User
	loginErr error

	loggedOut []string
}

func (f *fakeAuthService) Login(_ context.Context, email, password string) (application.Session, application.User, error) {
	if f.loginErr != nil {
		return application.Session{}, application.User{}, f.loginErr
	}
	return f.session, f.user, nil
}

func (f *fakeAuthService) Logout(_ context.Context, token string) error {
	f.loggedOut = append(f.loggedOut, token)
	return nil
}

type fakeRoomService struct {
	rooms     []booking.Room
	created   []application.CreateRoomParams
	createErr error
}

func (f *fakeRoomService) CreateRoom(_ context.Context, _ application.Principal, params application.CreateRoomParams) (booking.Room, error) {
	if f.createErr != nil {
		return booking.Room{}, f.createErr
	}
	f.created = append(f.created, params)
	return booking.Room{ID: "room-new", Name: params.Name, Capacity: params.Capacity, IsActive: params.IsActive, Resources: params.Resources}, nil
}

func (f *fakeRoomService) GetRoom(_ context.Context, id string) (booking.Room, error) {
	for _, room := range f.rooms {
		if room.ID == id {
			return room, nil
		}
	}
	return booking.Room{}, application.ErrNotFound
}

func (f *fakeRoomService) ListRooms(_ context.Context) ([]booking.Room, error) {
	return f.rooms, nil
}

func (f *fakeRoomService) UpdateRoom(_ context.Context, _ application.Principal, id string, _ application.UpdateRoomParams) (booking.Room, error) {
	return booking.Room{}, application.ErrNotFound
}

func (f *fakeRoomService) DeleteRoom(_ context.Context, _ application.Principal, _ string) error {
	return nil
}

type fakeReservationService struct {
	reservation application.Reservation
	occurrences []booking.Occurrence
	createErr   error
	decideErr   error

	lastCreate application.CreateReservationParams
	lastAction string
}

func (f *fakeReservationService) CreateReservation(_ context.Context, _ application.Principal, params application.CreateReservationParams) (application.Reservation, error) {
	f.lastCreate = params
	if f.createErr != nil {
		return application.Reservation{}, f.createErr
	}
	return f.reservation, nil
}

func (f *fakeReservationService) GetReservation(_ context.Context, _ string) (application.Reservation, error) {
	return f.reservation, nil
}

func (f *fakeReservationService) ListReservations(_ context.Context, _ application.ReservationQuery) ([]application.Reservation, error) {
	return []application.Reservation{f.reservation}, nil
}

func (f *fakeReservationService) ApproveReservation(_ context.Context, _ application.Principal, _ string) (application.Reservation, error) {
	f.lastAction = "approve"
	if f.decideErr != nil {
		return application.Reservation{}, f.decideErr
	}
	return f.reservation, nil
}

func (f *fakeReservationService) RejectReservation(_ context.Context, _ application.Principal, _ string) (application.Reservation, error) {
	f.lastAction = "reject"
	return f.reservation, nil
}

func (f *fakeReservationService) CancelReservation(_ context.Context, _ application.Principal, _ string) (application.Reservation, error) {
	f.lastAction = "cancel"
	return f.reservation, nil
}

func (f *fakeReservationService) ListOccurrences(_ context.Context, _ string) ([]booking.Occurrence, error) {
	return f.occurrences, nil
}

type fakeAvailabilityService struct {
	rooms     []booking.Room
	lastQuery application.AvailabilityQuery
}

func (f *fakeAvailabilityService) AvailableRooms(_ context.Context, _ application.Principal, query application.AvailabilityQuery) ([]booking.Room, error) {
	f.lastQuery = query
	return f.rooms, nil
}

// withPrincipal injects a fixed principal, standing in for the session
// middleware.
func withPrincipal(principal application.Principal) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(ContextWithPrincipal(r.Context(), principal)))
		})
	}
}

func decodeBody(t *testing.T, recorder *httptest.ResponseRecorder, out any) {
	t.Helper()
	if err := json.NewDecoder(recorder.Body).Decode(out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func TestAuthHandlers(t *testing.T) {
	expires := time.Date(2024, time.June, 2, 12, 0, 0, 0, time.UTC)
	service := &fakeAuthService{
		session: application.Session{Token: "token-abc", ExpiresAt: expires},
		user:    application.User{ID: "user-1", Email: "ana@example.edu", DisplayName: "Ana", Role: application.RoleProfessor},
	}
	router := NewRouter(RouterConfig{Auth: NewAuthHandler(service, nil)})

	t.Run("login issues token via body, header and cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/sessions", strings.NewReader(`{"email":"ana@example.edu","password":"segredo123"}`))
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, req)

		if recorder.Code != http.StatusCreated {
			t.Fatalf("status = %d, want 201", recorder.Code)
		}
		if got := recorder.Header().Get("X-Session-Token"); got != "token-abc" {
			t.Fatalf("X-Session-Token = %q", got)
		}
		var hasCookie bool
		for _, cookie := range recorder.Result().Cookies() {
			if cookie.Name == "session_token" && cookie.Value == "token-abc" {
				hasCookie = true
			}
		}
		if !hasCookie {
			t.Fatal("session cookie not set")
		}

		var body loginResponse
		decodeBody(t, recorder, &body)
		if body.Token != "token-abc" || body.User.ID != "user-1" {
			t.Fatalf("unexpected body: %+v", body)
		}
	})

	t.Run("malformed email is rejected before the service", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/sessions", strings.NewReader(`{"email":"not-an-email","password":"x"}`))
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, req)

		if recorder.Code != http.StatusUnprocessableEntity {
			t.Fatalf("status = %d, want 422", recorder.Code)
		}
		var body errorResponse
		decodeBody(t, recorder, &body)
		if _, ok := body.Errors["email"]; !ok {
			t.Fatalf("expected email field error, got %+v", body.Errors)
		}
	})

	t.Run("invalid credentials map to 401", func(t *testing.T) {
		failing := &fakeAuthService{loginErr: application.ErrInvalidCredentials}
		failingRouter := NewRouter(RouterConfig{Auth: NewAuthHandler(failing, nil)})

		req := httptest.NewRequest(http.MethodPost, "/sessions", strings.NewReader(`{"email":"ana@example.edu","password":"errada"}`))
		recorder := httptest.NewRecorder()
		failingRouter.ServeHTTP(recorder, req)

		if recorder.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, want 401", recorder.Code)
		}
		var body errorResponse
		decodeBody(t, recorder, &body)
		if body.ErrorCode != "AUTH_INVALID_CREDENTIALS" {
			t.Fatalf("error_code = %q", body.ErrorCode)
		}
	})

	t.Run("logout revokes the presented token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodDelete, "/sessions/current", nil)
		req.Header.Set("Authorization", "Bearer token-abc")
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, req)

		if recorder.Code != http.StatusNoContent {
			t.Fatalf("status = %d, want 204", recorder.Code)
		}
		if len(service.loggedOut) != 1 || service.loggedOut[0] != "token-abc" {
			t.Fatalf("revoked tokens = %v", service.loggedOut)
		}
	})
}

func TestRoomHandlers(t *testing.T) {
	professor := application.Principal{UserID: "user-1", Role: application.RoleProfessor}

	t.Run("listing is open to any authenticated principal", func(t *testing.T) {
		service := &fakeRoomService{rooms: []booking.Room{{ID: "room-1", Name: "A101", Capacity: 20, IsActive: true}}}
		router := NewRouter(RouterConfig{
			Rooms:      NewRoomHandler(service, nil),
			Middleware: []func(http.Handler) http.Handler{withPrincipal(professor)},
		})

		req := httptest.NewRequest(http.MethodGet, "/rooms", nil)
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, req)

		if recorder.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", recorder.Code)
		}
		var body listRoomsResponse
		decodeBody(t, recorder, &body)
		if len(body.Rooms) != 1 || body.Rooms[0].Name != "A101" {
			t.Fatalf("unexpected rooms: %+v", body.Rooms)
		}
	})

	t.Run("legacy integer flags decode on create", func(t *testing.T) {
		service := &fakeRoomService{}
		router := NewRouter(RouterConfig{
			Rooms:      NewRoomHandler(service, nil),
			Middleware: []func(http.Handler) http.Handler{withPrincipal(application.Principal{UserID: "adm", Role: application.RoleAdmin})},
		})

		payload := `{"name":"A102","capacity":30,"has_projector":1,"has_internet":"1","has_air_conditioning":false}`
		req := httptest.NewRequest(http.MethodPost, "/rooms", strings.NewReader(payload))
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, req)

		if recorder.Code != http.StatusCreated {
			t.Fatalf("status = %d, want 201: %s", recorder.Code, recorder.Body.String())
		}
		if len(service.created) != 1 {
			t.Fatalf("created calls = %d", len(service.created))
		}
		resources := service.created[0].Resources
		if !resources.Projector || !resources.Internet || resources.AirConditioning {
			t.Fatalf("unexpected resources: %+v", resources)
		}
	})

	t.Run("unauthorized mutation maps to 403", func(t *testing.T) {
		service := &fakeRoomService{createErr: application.ErrUnauthorized}
		router := NewRouter(RouterConfig{
			Rooms:      NewRoomHandler(service, nil),
			Middleware: []func(http.Handler) http.Handler{withPrincipal(professor)},
		})

		req := httptest.NewRequest(http.MethodPost, "/rooms", strings.NewReader(`{"name":"A103","capacity":10}`))
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, req)

		if recorder.Code != http.StatusForbidden {
			t.Fatalf("status = %d, want 403", recorder.Code)
		}
	})

	t.Run("unknown room maps to 404", func(t *testing.T) {
		router := NewRouter(RouterConfig{
			Rooms:      NewRoomHandler(&fakeRoomService{}, nil),
			Middleware: []func(http.Handler) http.Handler{withPrincipal(professor)},
		})

		req := httptest.NewRequest(http.MethodGet, "/rooms/missing", nil)
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, req)

		if recorder.Code != http.StatusNotFound {
			t.Fatalf("status = %d, want 404", recorder.Code)
		}
	})
}

func TestReservationHandlers(t *testing.T) {
	professor := application.Principal{UserID: "user-1", Role: application.RoleProfessor}
	endDate := calendar.MustDate("2024-06-24")
	stored := application.Reservation{
		Reservation: booking.Reservation{
			ID:                "res-1",
			RoomID:            "room-1",
			Status:            booking.StatusPending,
			Date:              calendar.MustDate("2024-06-03"),
			StartTime:         calendar.MustClock("10:00"),
			EndTime:           calendar.MustClock("11:00"),
			IsRecurring:       true,
			RecurrenceType:    booking.FrequencyWeekly,
			RecurrenceEndDate: &endDate,
			Title:             "Seminário",
			Description:       "Seminário semanal",
			PeopleCount:       12,
			RequestedBy:       "user-1",
		},
		StartISO: "2024-06-03T10:00:00-03:00",
		EndISO:   "2024-06-03T11:00:00-03:00",
	}

	newRouterWith := func(service *fakeReservationService) http.Handler {
		return NewRouter(RouterConfig{
			Reservations: NewReservationHandler(service, nil),
			Middleware:   []func(http.Handler) http.Handler{withPrincipal(professor)},
		})
	}

	t.Run("create returns the stored reservation", func(t *testing.T) {
		service := &fakeReservationService{reservation: stored}
		router := newRouterWith(service)

		payload := `{
			"room_id":"room-1","title":"Seminário","description":"Seminário semanal",
			"people_count":12,"date":"2024-06-03","start_time":"10:00","end_time":"11:00",
			"is_recurring":1,"recurrence_type":"weekly","recurrence_end_date":"2024-06-24"
		}`
		req := httptest.NewRequest(http.MethodPost, "/reservations", strings.NewReader(payload))
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, req)

		if recorder.Code != http.StatusCreated {
			t.Fatalf("status = %d, want 201: %s", recorder.Code, recorder.Body.String())
		}
		if !service.lastCreate.IsRecurring {
			t.Fatal("legacy 1 did not decode as recurring")
		}
		var body reservationResponse
		decodeBody(t, recorder, &body)
		if body.Reservation.ID != "res-1" || body.Reservation.RecurrenceEndDate != "2024-06-24" {
			t.Fatalf("unexpected reservation: %+v", body.Reservation)
		}
	})

	t.Run("missing required fields fail fast", func(t *testing.T) {
		router := newRouterWith(&fakeReservationService{reservation: stored})

		req := httptest.NewRequest(http.MethodPost, "/reservations", strings.NewReader(`{"room_id":"room-1"}`))
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, req)

		if recorder.Code != http.StatusUnprocessableEntity {
			t.Fatalf("status = %d, want 422", recorder.Code)
		}
		var body errorResponse
		decodeBody(t, recorder, &body)
		for _, field := range []string{"title", "description", "people_count", "date", "start_time", "end_time"} {
			if _, ok := body.Errors[field]; !ok {
				t.Fatalf("missing field error for %s: %+v", field, body.Errors)
			}
		}
	})

	t.Run("room conflict maps to 409 with error code", func(t *testing.T) {
		service := &fakeReservationService{createErr: application.ErrRoomConflict}
		router := newRouterWith(service)

		payload := `{"room_id":"room-1","title":"Aula","description":"Aula","people_count":5,"date":"2024-06-03","start_time":"10:00","end_time":"11:00"}`
		req := httptest.NewRequest(http.MethodPost, "/reservations", strings.NewReader(payload))
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, req)

		if recorder.Code != http.StatusConflict {
			t.Fatalf("status = %d, want 409", recorder.Code)
		}
		var body errorResponse
		decodeBody(t, recorder, &body)
		if body.ErrorCode != "RESERVATION_CONFLICT" {
			t.Fatalf("error_code = %q", body.ErrorCode)
		}
	})

	t.Run("moderation subactions dispatch by path", func(t *testing.T) {
		for _, action := range []string{"approve", "reject", "cancel"} {
			service := &fakeReservationService{reservation: stored}
			router := newRouterWith(service)

			req := httptest.NewRequest(http.MethodPost, "/reservations/res-1/"+action, nil)
			recorder := httptest.NewRecorder()
			router.ServeHTTP(recorder, req)

			if recorder.Code != http.StatusOK {
				t.Fatalf("%s: status = %d, want 200", action, recorder.Code)
			}
			if service.lastAction != action {
				t.Fatalf("%s: dispatched %q", action, service.lastAction)
			}
		}
	})

	t.Run("invalid transition maps to 409", func(t *testing.T) {
		service := &fakeReservationService{reservation: stored, decideErr: application.ErrInvalidTransition}
		router := newRouterWith(service)

		req := httptest.NewRequest(http.MethodPost, "/reservations/res-1/approve", nil)
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, req)

		if recorder.Code != http.StatusConflict {
			t.Fatalf("status = %d, want 409", recorder.Code)
		}
	})

	t.Run("occurrences are expanded in the response", func(t *testing.T) {
		service := &fakeReservationService{
			reservation: stored,
			occurrences: []booking.Occurrence{
				{ID: "res-1_2024-06-03", Date: calendar.MustDate("2024-06-03"), IsRecurrenceInstance: true, OriginalReservationID: "res-1"},
				{ID: "res-1_2024-06-10", Date: calendar.MustDate("2024-06-10"), IsRecurrenceInstance: true, OriginalReservationID: "res-1"},
			},
		}
		router := newRouterWith(service)

		req := httptest.NewRequest(http.MethodGet, "/reservations/res-1/occurrences", nil)
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, req)

		if recorder.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", recorder.Code)
		}
		var body listOccurrencesResponse
		decodeBody(t, recorder, &body)
		if len(body.Occurrences) != 2 || body.Occurrences[0].ID != "res-1_2024-06-03" {
			t.Fatalf("unexpected occurrences: %+v", body.Occurrences)
		}
	})

	t.Run("malformed list filter maps to 422", func(t *testing.T) {
		router := newRouterWith(&fakeReservationService{reservation: stored})

		req := httptest.NewRequest(http.MethodGet, "/reservations?date_from=03/06/2024", nil)
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, req)

		if recorder.Code != http.StatusUnprocessableEntity {
			t.Fatalf("status = %d, want 422", recorder.Code)
		}
	})
}

func TestAvailabilityHandler(t *testing.T) {
	student := application.Principal{UserID: "user-2", Role: application.RoleStudent}
	service := &fakeAvailabilityService{rooms: []booking.Room{{ID: "room-2", Name: "A102", Capacity: 20, IsActive: true}}}
	router := NewRouter(RouterConfig{
		Availability: NewAvailabilityHandler(service, nil),
		Middleware:   []func(http.Handler) http.Handler{withPrincipal(student)},
	})

	target := "/availability?date=2024-06-03&start_time=10:00&end_time=11:00&people_count=5" +
		"&description=Monitoria&project_id=proj-1&projector=1&is_recurring=true&recurrence_type=weekly&recurrence_end_date=2024-06-24"
	req := httptest.NewRequest(http.MethodGet, target, nil)
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	if recorder.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", recorder.Code)
	}

	query := service.lastQuery
	if query.Date != "2024-06-03" || query.PeopleCount != 5 || !query.IsRecurring {
		t.Fatalf("unexpected query: %+v", query)
	}
	if !query.Resources.Projector || query.Resources.Internet {
		t.Fatalf("unexpected resources: %+v", query.Resources)
	}
	if query.RecurrenceType != "weekly" || query.RecurrenceEndDate != "2024-06-24" {
		t.Fatalf("unexpected recurrence fields: %+v", query)
	}

	var body listRoomsResponse
	decodeBody(t, recorder, &body)
	if len(body.Rooms) != 1 || body.Rooms[0].ID != "room-2" {
		t.Fatalf("unexpected rooms: %+v", body.Rooms)
	}
}
