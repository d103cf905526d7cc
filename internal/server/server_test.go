package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/labstack/echo/v4"
	"github.com/xxiimcha/lifeec-mobile/internal/model"
	"github.com/xxiimcha/lifeec-mobile/internal/repository"
	"github.com/xxiimcha/lifeec-mobile/internal/service"
	"github.com/xxiimcha/lifeec-mobile/internal/testutil"
	"github.com/xxiimcha/lifeec-mobile/pkg/jwtutil"
	"github.com/xxiimcha/lifeec-mobile/pkg/logger"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type linkRecorder struct {
	link string
}

func (r *linkRecorder) SendPasswordReset(_ context.Context, _, link string) error {
	r.link = link
	return nil
}

type testServer struct {
	e        *echo.Echo
	clock    *clockwork.FakeClock
	accounts *repository.AccountRepository
	alerts   *repository.AlertRepository
	hasher   service.PasswordHasher
	mail     *linkRecorder
	tokens   *jwtutil.JWTUtil
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	logger.SetLogger(zap.NewNop())

	db := testutil.NewDB(t)
	clock := clockwork.NewFakeClockAt(time.Date(2024, 9, 15, 10, 0, 0, 0, time.UTC))
	accounts := repository.NewAccountRepository(db)
	alerts := repository.NewAlertRepository(db)
	residents := repository.NewResidentRepository(db)
	hasher := &service.BcryptHasher{Cost: bcrypt.MinCost}
	tokens := jwtutil.NewJWTUtil("test-secret", clock)
	mail := &linkRecorder{}

	e := New(Deps{
		Auth:          service.NewAuthService(accounts, hasher, tokens, mail, clock, "http://app.test/reset"),
		Accounts:      service.NewAccountService(accounts, hasher),
		Contacts:      service.NewContactService(accounts),
		Alerts:        service.NewAlertService(alerts, residents, clock),
		Residents:     service.NewResidentService(residents),
		Messages:      service.NewMessageService(repository.NewMessageRepository(db), clock),
		Notifications: service.NewNotificationService(repository.NewNotificationRepository(db), clock),
		Tokens:        tokens,
	})
	return &testServer{e: e, clock: clock, accounts: accounts, alerts: alerts, hasher: hasher, mail: mail, tokens: tokens}
}

func (s *testServer) do(t *testing.T, method, path, body, token string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body == "" {
		reader = bytes.NewReader(nil)
	} else {
		reader = bytes.NewReader([]byte(body))
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) addAccount(t *testing.T, email, password string, role model.Role) *model.Account {
	t.Helper()
	hashed, err := s.hasher.Hash(password)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	account := &model.Account{Name: string(role) + " user", Email: email, Password: hashed, UserType: role}
	if role == model.RoleFamilyMember {
		rid := "R1"
		account.ResidentID = &rid
	}
	if err := s.accounts.Create(context.Background(), account); err != nil {
		t.Fatalf("create account: %v", err)
	}
	return account
}

func (s *testServer) tokenFor(t *testing.T, account *model.Account) string {
	t.Helper()
	token, err := s.tokens.GenerateToken(account.ID, string(account.UserType))
	if err != nil {
		t.Fatalf("token: %v", err)
	}
	return token
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
}

func TestCreateAlertThenQueryRecent(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/alerts", `{"residentId":"R1","residentName":"Jane","message":"fall detected"}`, "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var created model.Alert
	decode(t, rec, &created)
	if !created.Timestamp.Equal(s.clock.Now()) {
		t.Fatalf("expected timestamp %v, got %v", s.clock.Now(), created.Timestamp)
	}

	rec = s.do(t, http.MethodGet, "/alerts?residentId=R1", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var recent []model.Alert
	decode(t, rec, &recent)
	if len(recent) != 1 || recent[0].ID != created.ID {
		t.Fatalf("expected created alert in recent list, got %+v", recent)
	}
}

func TestCreateAlertMissingFieldIsRejected(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/alerts", `{"residentId":"R1","message":"fall detected"}`, "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	var body struct {
		Message string            `json:"message"`
		Errors  map[string]string `json:"errors"`
	}
	decode(t, rec, &body)
	if body.Message == "" || body.Errors["residentName"] == "" {
		t.Fatalf("expected message and residentName error, got %+v", body)
	}

	n, err := s.alerts.Count(context.Background())
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 0 {
		t.Fatalf("expected no alerts stored, got %d", n)
	}
}

func TestCreateAlertReportsEveryBadField(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/alerts", `{"residentName":"`+strings.Repeat("x", 101)+`","message":"m"}`, "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	var body struct {
		Errors map[string]string `json:"errors"`
	}
	decode(t, rec, &body)
	if body.Errors["residentId"] == "" || body.Errors["residentName"] == "" {
		t.Fatalf("expected both residentId and residentName errors, got %+v", body.Errors)
	}
}

func TestDeleteAlertTwice(t *testing.T) {
	s := newTestServer(t)
	for i := 0; i < 2; i++ {
		rec := s.do(t, http.MethodDelete, "/alerts/X", "", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("delete #%d: expected 200, got %d", i+1, rec.Code)
		}
	}
}

func TestCountByMonthEndpoint(t *testing.T) {
	s := newTestServer(t)
	s.do(t, http.MethodPost, "/alerts", `{"residentId":"R1","residentName":"Jane","message":"m","timestamp":"2024-02-10T08:00:00Z"}`, "")
	s.do(t, http.MethodPost, "/alerts", `{"residentId":"R1","residentName":"Jane","message":"m"}`, "")

	rec := s.do(t, http.MethodGet, "/alerts/count-by-month", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var counts []int64
	decode(t, rec, &counts)
	if len(counts) != 12 || counts[1] != 1 || counts[8] != 1 {
		t.Fatalf("unexpected counts %v", counts)
	}

	rec = s.do(t, http.MethodGet, "/alerts/count-by-month?year=2023", "", "")
	decode(t, rec, &counts)
	if len(counts) != 12 {
		t.Fatalf("expected 12 buckets, got %d", len(counts))
	}

	rec = s.do(t, http.MethodGet, "/alerts/count-by-month?year=abc", "", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for a bad year, got %d", rec.Code)
	}
}

func TestDashboardSummaryEndpoint(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(t, http.MethodGet, "/dashboard/summary", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var body map[string]int64
	decode(t, rec, &body)
	for _, key := range []string{"totalResidents", "totalAlerts", "activeResidents"} {
		if _, ok := body[key]; !ok {
			t.Fatalf("missing %s in %v", key, body)
		}
	}
}

func TestSignInWrongPassword(t *testing.T) {
	s := newTestServer(t)
	s.addAccount(t, "nurse@lifeec.test", "secret", model.RoleNurse)

	rec := s.do(t, http.MethodPost, "/auth/signin", `{"email":"nurse@lifeec.test","password":"nope"}`, "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	var body map[string]interface{}
	decode(t, rec, &body)
	if body["message"] != "Invalid credentials" {
		t.Fatalf("unexpected body %v", body)
	}
	if _, ok := body["token"]; ok {
		t.Fatalf("no token may be issued on failure")
	}
}

func TestSignInSuccess(t *testing.T) {
	s := newTestServer(t)
	account := s.addAccount(t, "nurse@lifeec.test", "secret", model.RoleNurse)

	rec := s.do(t, http.MethodPost, "/auth/signin", `{"email":"nurse@lifeec.test","password":"secret"}`, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var body service.SignInResult
	decode(t, rec, &body)
	if body.Token == "" || body.ID != account.ID || body.UserType != model.RoleNurse || body.Name != account.Name {
		t.Fatalf("unexpected sign-in response %+v", body)
	}
}

func TestResetPasswordWithExpiredToken(t *testing.T) {
	s := newTestServer(t)
	s.addAccount(t, "admin@lifeec.test", "secret", model.RoleAdmin)

	rec := s.do(t, http.MethodPost, "/auth/forgot-password", `{"email":"admin@lifeec.test"}`, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	token := s.mail.link[strings.LastIndex(s.mail.link, "/")+1:]

	s.clock.Advance(11 * time.Minute)
	rec = s.do(t, http.MethodPost, "/auth/reset-password/"+token, `{"password":"new-secret"}`, "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	var body map[string]interface{}
	decode(t, rec, &body)
	if body["message"] != "Invalid or expired token" {
		t.Fatalf("unexpected body %v", body)
	}
}

func TestForgotPasswordUnknownEmail(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(t, http.MethodPost, "/auth/forgot-password", `{"email":"ghost@lifeec.test"}`, "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestContactsUnknownRoleSeesOnlyAdmins(t *testing.T) {
	s := newTestServer(t)
	s.addAccount(t, "admin@lifeec.test", "x", model.RoleAdmin)
	s.addAccount(t, "nurse@lifeec.test", "x", model.RoleNurse)
	s.addAccount(t, "fam@lifeec.test", "x", model.RoleFamilyMember)

	for _, path := range []string{"/contacts", "/contacts?userType=Janitor"} {
		rec := s.do(t, http.MethodGet, path, "", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d", path, rec.Code)
		}
		var contacts []map[string]interface{}
		decode(t, rec, &contacts)
		if len(contacts) != 1 || contacts[0]["userType"] != "Admin" {
			t.Fatalf("%s: expected only the admin, got %v", path, contacts)
		}
		if _, leaked := contacts[0]["password"]; leaked {
			t.Fatalf("password hash must not be serialized")
		}
	}

	rec := s.do(t, http.MethodGet, "/contacts?userType=Family%20Member", "", "")
	var contacts []map[string]interface{}
	decode(t, rec, &contacts)
	if len(contacts) != 2 {
		t.Fatalf("family member should see nurse and admin, got %v", contacts)
	}
}

func TestUsersRequireAdmin(t *testing.T) {
	s := newTestServer(t)
	admin := s.addAccount(t, "admin@lifeec.test", "x", model.RoleAdmin)
	nurse := s.addAccount(t, "nurse@lifeec.test", "x", model.RoleNurse)

	if rec := s.do(t, http.MethodGet, "/users", "", ""); rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", rec.Code)
	}
	if rec := s.do(t, http.MethodGet, "/users", "", s.tokenFor(t, nurse)); rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for nurse, got %d", rec.Code)
	}

	adminToken := s.tokenFor(t, admin)
	rec := s.do(t, http.MethodPost, "/users",
		`{"name":"New Nurse","email":"new@lifeec.test","password":"pw","userType":"Nurse"}`, adminToken)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	rec = s.do(t, http.MethodPost, "/users",
		`{"name":"Dup","email":"new@lifeec.test","password":"pw","userType":"Nurse"}`, adminToken)
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 for duplicate email, got %d", rec.Code)
	}
	rec = s.do(t, http.MethodPost, "/users",
		`{"name":"Bad","email":"not-an-email","password":"pw","userType":"Nurse"}`, adminToken)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed email, got %d", rec.Code)
	}

	if rec := s.do(t, http.MethodDelete, "/users/missing", "", adminToken); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 deleting unknown user, got %d", rec.Code)
	}
}

func TestExpiredSessionIsRejected(t *testing.T) {
	s := newTestServer(t)
	nurse := s.addAccount(t, "nurse@lifeec.test", "x", model.RoleNurse)
	token := s.tokenFor(t, nurse)

	if rec := s.do(t, http.MethodGet, "/residents", "", token); rec.Code != http.StatusOK {
		t.Fatalf("expected 200 with a fresh token, got %d", rec.Code)
	}
	s.clock.Advance(jwtutil.TokenTTL + time.Minute)
	if rec := s.do(t, http.MethodGet, "/residents", "", token); rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 after expiry, got %d", rec.Code)
	}
}

func TestMessagingRoundTrip(t *testing.T) {
	s := newTestServer(t)
	fam := s.addAccount(t, "fam@lifeec.test", "x", model.RoleFamilyMember)
	nurse := s.addAccount(t, "nurse@lifeec.test", "x", model.RoleNurse)

	rec := s.do(t, http.MethodPost, "/messages", `{"receiverId":"`+nurse.ID+`","text":"How is mum?"}`, s.tokenFor(t, fam))
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var sent model.Message
	decode(t, rec, &sent)
	if sent.SenderID != fam.ID {
		t.Fatalf("sender must come from the token, got %s", sent.SenderID)
	}

	nurseToken := s.tokenFor(t, nurse)
	rec = s.do(t, http.MethodGet, "/messages?with="+fam.ID, "", nurseToken)
	var thread []model.Message
	decode(t, rec, &thread)
	if len(thread) != 1 {
		t.Fatalf("expected 1 message, got %d", len(thread))
	}

	if rec := s.do(t, http.MethodPatch, "/messages/"+sent.ID+"/read", "", nurseToken); rec.Code != http.StatusOK {
		t.Fatalf("expected 200 marking read, got %d", rec.Code)
	}
}

func TestNotificationsAreScopedToTheirOwner(t *testing.T) {
	s := newTestServer(t)
	fam := s.addAccount(t, "fam@lifeec.test", "x", model.RoleFamilyMember)
	nurse := s.addAccount(t, "nurse@lifeec.test", "x", model.RoleNurse)
	admin := s.addAccount(t, "admin@lifeec.test", "x", model.RoleAdmin)
	famToken := s.tokenFor(t, fam)
	nurseToken := s.tokenFor(t, nurse)

	rec := s.do(t, http.MethodPost, "/notifications",
		`{"userId":"`+nurse.ID+`","type":"message","content":"New message from family"}`, famToken)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var created model.Notification
	decode(t, rec, &created)

	if rec := s.do(t, http.MethodGet, "/notifications/"+nurse.ID, "", famToken); rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 listing another user's notifications, got %d", rec.Code)
	}
	if rec := s.do(t, http.MethodPatch, "/notifications/"+created.ID+"/read", "", famToken); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 marking another user's notification, got %d", rec.Code)
	}

	rec = s.do(t, http.MethodGet, "/notifications/"+nurse.ID, "", nurseToken)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for the owner, got %d", rec.Code)
	}
	var list []model.Notification
	decode(t, rec, &list)
	if len(list) != 1 || list[0].IsRead {
		t.Fatalf("expected one unread notification, got %+v", list)
	}

	if rec := s.do(t, http.MethodGet, "/notifications/"+nurse.ID, "", s.tokenFor(t, admin)); rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for admin, got %d", rec.Code)
	}
	if rec := s.do(t, http.MethodPatch, "/notifications/"+created.ID+"/read", "", nurseToken); rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for the owner marking read, got %d", rec.Code)
	}
}

func TestResidentUpdateAndDeleteEndpoints(t *testing.T) {
	s := newTestServer(t)
	nurse := s.addAccount(t, "nurse@lifeec.test", "x", model.RoleNurse)
	token := s.tokenFor(t, nurse)

	rec := s.do(t, http.MethodPost, "/residents",
		`{"name":"Lola","age":84,"gender":"Female","contact":"0917","emergencyContact":{"name":"Ana","phone":"0918"}}`, token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var resident model.Resident
	decode(t, rec, &resident)

	rec = s.do(t, http.MethodPut, "/residents/"+resident.ID, `{"contact":"0920"}`, token)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var updated model.Resident
	decode(t, rec, &updated)
	if updated.Contact != "0920" || updated.Name != "Lola" {
		t.Fatalf("unexpected updated resident %+v", updated)
	}

	if rec := s.do(t, http.MethodPut, "/residents/missing", `{"name":"X"}`, token); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 updating unknown resident, got %d", rec.Code)
	}
	if rec := s.do(t, http.MethodPut, "/residents/"+resident.ID, `{"name":"X"}`, ""); rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", rec.Code)
	}

	rec = s.do(t, http.MethodDelete, "/residents/"+resident.ID, "", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var body map[string]interface{}
	decode(t, rec, &body)
	if body["message"] != "Resident deleted" {
		t.Fatalf("unexpected body %v", body)
	}

	rec = s.do(t, http.MethodDelete, "/residents/"+resident.ID, "", token)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 deleting twice, got %d", rec.Code)
	}
	decode(t, rec, &body)
	if body["message"] != "Resident not found" {
		t.Fatalf("unexpected body %v", body)
	}
}

func TestHealthAndRequestID(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(t, http.MethodGet, "/health", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if rec.Header().Get(logger.RequestIDKey) == "" {
		t.Fatalf("expected a request id header")
	}

	rec = s.do(t, http.MethodGet, "/nowhere", "", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	var body map[string]interface{}
	decode(t, rec, &body)
	if body["message"] == "" {
		t.Fatalf("expected a message for unknown routes")
	}
}
