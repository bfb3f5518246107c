package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/tavolohq/tavolo/internal/domain"
	"github.com/tavolohq/tavolo/internal/gateway/business"
	"github.com/tavolohq/tavolo/internal/service/i18n"
)

// 2024-06-10 is a Monday.
var testClock = func() time.Time {
	return time.Date(2024, 6, 10, 9, 30, 0, 0, time.UTC)
}

func testDeps(store *testStore) (Dependencies, *testPublisher) {
	publisher := &testPublisher{result: business.PublishResult{Status: "accepted"}}
	deps := Dependencies{
		Restaurants: &testRestaurantResolver{restaurant: domain.Restaurant{
			Name:      "Trattoria",
			IsDefault: true,
			Timezone:  "UTC",
			Locale:    "en",
			Publish:   domain.PublishSettings{Token: "saved-token", LocationID: "loc-9"},
		}},
		Config:     &testConfigManager{},
		Stores:     &testStoreProvider{store: store},
		Publisher:  publisher,
		Translator: i18n.New(),
		Clock:      testClock,
		Version:    "test",
	}
	return deps, publisher
}

func runCLI(t *testing.T, deps Dependencies, args ...string) (int, string, string) {
	t.Helper()
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	code := Execute(context.Background(), args, deps, stdout, stderr)
	return code, stdout.String(), stderr.String()
}

func weekdaySchedule() domain.WeeklySchedule {
	return domain.WeeklySchedule{
		"monday": {Day: "Monday", IsOpen: true, Periods: []domain.Period{
			{Open: "09:00", Close: "12:00"},
			{Open: "13:00", Close: "18:00"},
		}},
		"tuesday": {Day: "Tuesday", IsOpen: true, Periods: []domain.Period{
			{Open: "10:00", Close: "16:00"},
		}},
	}
}

func TestStatusCommandTableOpen(t *testing.T) {
	deps, _ := testDeps(&testStore{hours: weekdaySchedule()})

	code, stdout, stderr := runCLI(t, deps, "status")
	if code != 0 {
		t.Fatalf("exit code = %d, stderr = %q", code, stderr)
	}
	if !strings.Contains(stdout, "open") {
		t.Fatalf("expected open state in output:\n%s", stdout)
	}
	if !strings.Contains(stdout, "monday") {
		t.Fatalf("expected day in output:\n%s", stdout)
	}
}

func TestStatusCommandJSONAtMoment(t *testing.T) {
	deps, _ := testDeps(&testStore{hours: weekdaySchedule()})

	code, stdout, stderr := runCLI(t, deps, "status", "--format", "json", "--at", "2024-06-10T12:30:00Z")
	if code != 0 {
		t.Fatalf("exit code = %d, stderr = %q", code, stderr)
	}

	var env struct {
		Meta map[string]any `json:"meta"`
		Data struct {
			Snapshot struct {
				State               string `json:"state"`
				MinutesUntilOpening int    `json:"minutesUntilOpening"`
			} `json:"snapshot"`
			Phrase string `json:"phrase"`
		} `json:"data"`
	}
	if err := json.Unmarshal([]byte(stdout), &env); err != nil {
		t.Fatalf("decode envelope: %v\n%s", err, stdout)
	}
	if env.Data.Snapshot.State != "opening_soon" {
		t.Errorf("state = %q, want opening_soon", env.Data.Snapshot.State)
	}
	if env.Data.Snapshot.MinutesUntilOpening != 30 {
		t.Errorf("minutesUntilOpening = %d, want 30", env.Data.Snapshot.MinutesUntilOpening)
	}
	if env.Meta["restaurant"] != "Trattoria" {
		t.Errorf("meta restaurant = %v", env.Meta["restaurant"])
	}
}

func TestStatusCommandMissingHoursWarns(t *testing.T) {
	deps, _ := testDeps(&testStore{})

	code, stdout, _ := runCLI(t, deps, "status")
	if code != 0 {
		t.Fatalf("exit code = %d", code)
	}
	if !strings.Contains(stdout, "closed") {
		t.Fatalf("expected closed state:\n%s", stdout)
	}
	if !strings.Contains(stdout, "warning:") {
		t.Fatalf("expected missing-hours warning:\n%s", stdout)
	}
}

func TestStatusCommandRestaurantErrorExitsOne(t *testing.T) {
	deps, _ := testDeps(&testStore{})
	deps.Restaurants = &testRestaurantResolver{err: errTestBoom}

	code, stdout, _ := runCLI(t, deps, "status")
	if code != 1 {
		t.Fatalf("exit code = %d, want 1", code)
	}
	if !strings.Contains(stdout, "boom") {
		t.Fatalf("expected resolver error in output:\n%s", stdout)
	}
}

func TestHoursShowListsEveryWeekday(t *testing.T) {
	deps, _ := testDeps(&testStore{hours: weekdaySchedule()})

	code, stdout, _ := runCLI(t, deps, "hours", "show")
	if code != 0 {
		t.Fatalf("exit code = %d", code)
	}
	for _, label := range []string{"Monday", "Tuesday", "Wednesday", "Sunday"} {
		if !strings.Contains(stdout, label) {
			t.Errorf("missing %s row:\n%s", label, stdout)
		}
	}
	if !strings.Contains(stdout, "09:00 - 12:00, 13:00 - 18:00") {
		t.Errorf("missing split periods:\n%s", stdout)
	}
	if !strings.Contains(stdout, "Closed") {
		t.Errorf("missing closed fallback rows:\n%s", stdout)
	}
}

func TestHoursSetPersistsPeriods(t *testing.T) {
	store := &testStore{}
	deps, _ := testDeps(store)

	code, _, stderr := runCLI(t, deps, "hours", "set", "--day", "Wednesday", "--periods", "11:00-15:00")
	if code != 0 {
		t.Fatalf("exit code = %d, stderr = %q", code, stderr)
	}
	day, ok := store.hours["wednesday"]
	if !ok {
		t.Fatalf("wednesday not saved: %+v", store.hours)
	}
	if !day.IsOpen || len(day.Periods) != 1 || day.Periods[0].Open != "11:00" {
		t.Fatalf("unexpected saved day: %+v", day)
	}
}

func TestHoursSetClosedClearsPeriods(t *testing.T) {
	store := &testStore{hours: weekdaySchedule()}
	deps, _ := testDeps(store)

	code, _, _ := runCLI(t, deps, "hours", "set", "--day", "monday", "--closed")
	if code != 0 {
		t.Fatalf("exit code = %d", code)
	}
	day := store.hours["monday"]
	if day.IsOpen || len(day.Periods) != 0 {
		t.Fatalf("expected monday closed: %+v", day)
	}
}

func TestHoursSetRejectsBadInput(t *testing.T) {
	deps, _ := testDeps(&testStore{})

	if code, _, _ := runCLI(t, deps, "hours", "set", "--periods", "09:00-12:00"); code == 0 {
		t.Error("expected failure without --day")
	}
	if code, _, _ := runCLI(t, deps, "hours", "set", "--day", "funday", "--periods", "09:00-12:00"); code == 0 {
		t.Error("expected failure for unknown day")
	}
	if code, _, _ := runCLI(t, deps, "hours", "set", "--day", "monday", "--periods", "9am-noon"); code == 0 {
		t.Error("expected failure for malformed periods")
	}
	if code, _, _ := runCLI(t, deps, "hours", "set", "--day", "monday"); code == 0 {
		t.Error("expected failure without --periods or --closed")
	}
}

func TestHoursNextOpenAcrossDays(t *testing.T) {
	deps, _ := testDeps(&testStore{hours: weekdaySchedule()})

	code, stdout, _ := runCLI(t, deps, "hours", "next-open", "--at", "2024-06-10T19:00:00Z", "--format", "json")
	if code != 0 {
		t.Fatalf("exit code = %d", code)
	}
	var env struct {
		Data struct {
			NextOpening struct {
				Day     string `json:"day"`
				Time    string `json:"time"`
				IsToday bool   `json:"isToday"`
			} `json:"nextOpening"`
			Phrase string `json:"phrase"`
		} `json:"data"`
	}
	if err := json.Unmarshal([]byte(stdout), &env); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	if env.Data.NextOpening.Day != "tuesday" || env.Data.NextOpening.Time != "10:00" {
		t.Fatalf("unexpected next opening: %+v", env.Data.NextOpening)
	}
	if env.Data.NextOpening.IsToday {
		t.Fatal("expected a cross-day opening")
	}
	if env.Data.Phrase == "" {
		t.Fatal("phrase is empty")
	}
}

func TestClosingsAddListRemove(t *testing.T) {
	store := &testStore{}
	deps, _ := testDeps(store)

	code, _, stderr := runCLI(t, deps,
		"closings", "add",
		"--reason", "Summer holiday",
		"--start", "2024-06-08",
		"--end", "2024-06-12",
	)
	if code != 0 {
		t.Fatalf("add exit code = %d, stderr = %q", code, stderr)
	}
	if len(store.closings) != 1 {
		t.Fatalf("closing not saved: %+v", store.closings)
	}
	id := store.closings[0].ID
	if !strings.HasPrefix(id, "cls_") {
		t.Fatalf("unexpected generated ID %q", id)
	}

	code, stdout, _ := runCLI(t, deps, "closings", "list")
	if code != 0 {
		t.Fatalf("list exit code = %d", code)
	}
	if !strings.Contains(stdout, "Summer holiday") || !strings.Contains(stdout, "2024-06-08 to 2024-06-12") {
		t.Fatalf("expected closing row:\n%s", stdout)
	}

	code, _, _ = runCLI(t, deps, "closings", "remove", "--id", id)
	if code != 0 {
		t.Fatalf("remove exit code = %d", code)
	}
	if len(store.closings) != 0 {
		t.Fatalf("closing not removed: %+v", store.closings)
	}

	if code, _, _ = runCLI(t, deps, "closings", "remove", "--id", "cls_ghost"); code != 1 {
		t.Fatalf("expected exit 1 for unknown ID, got %d", code)
	}
}

func TestClosingsListActiveOnlyUsesFirstMatch(t *testing.T) {
	start1 := "2024-06-01"
	end1 := "2024-06-30"
	start2 := "2024-06-08"
	end2 := "2024-06-12"
	store := &testStore{closings: []domain.ClosingRecord{
		{ID: "cls_month", Reason: "June break", IsActive: true, StartDate: &start1, EndDate: &end1, Priority: 1},
		{ID: "cls_week", Reason: "Renovation", IsActive: true, StartDate: &start2, EndDate: &end2, Priority: 9},
	}}
	deps, _ := testDeps(store)

	code, stdout, _ := runCLI(t, deps, "closings", "list", "--active", "--format", "json")
	if code != 0 {
		t.Fatalf("exit code = %d", code)
	}
	var env struct {
		Data struct {
			Items []domain.ClosingRecord `json:"items"`
			Total int                    `json:"total"`
		} `json:"data"`
	}
	if err := json.Unmarshal([]byte(stdout), &env); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	if len(env.Data.Items) != 1 || env.Data.Items[0].ID != "cls_month" {
		t.Fatalf("expected first matching closing, got %+v", env.Data.Items)
	}
}

func TestClosingsListUpcoming(t *testing.T) {
	past := "2024-06-01"
	future := "2024-07-01"
	store := &testStore{closings: []domain.ClosingRecord{
		{ID: "cls_past", Reason: "Done", IsActive: true, StartDate: &past},
		{ID: "cls_future", Reason: "Planned", IsActive: true, StartDate: &future},
		{ID: "cls_disabled", Reason: "Draft", IsActive: false, StartDate: &future},
		{ID: "cls_open_ended", Reason: "No start", IsActive: true},
	}}
	deps, _ := testDeps(store)

	code, stdout, _ := runCLI(t, deps, "closings", "list", "--upcoming")
	if code != 0 {
		t.Fatalf("exit code = %d", code)
	}
	if !strings.Contains(stdout, "cls_future") {
		t.Fatalf("upcoming closing missing:\n%s", stdout)
	}
	for _, id := range []string{"cls_past", "cls_disabled", "cls_open_ended"} {
		if strings.Contains(stdout, id) {
			t.Errorf("%s should be filtered out:\n%s", id, stdout)
		}
	}

	if code, _, _ := runCLI(t, deps, "closings", "list", "--active", "--upcoming"); code == 0 {
		t.Fatal("expected failure when combining --active and --upcoming")
	}
}

func TestClosingsListPagination(t *testing.T) {
	closings := make([]domain.ClosingRecord, 0, 5)
	for _, id := range []string{"cls_a", "cls_b", "cls_c", "cls_d", "cls_e"} {
		closings = append(closings, domain.ClosingRecord{ID: id, Reason: "r"})
	}
	deps, _ := testDeps(&testStore{closings: closings})

	code, stdout, _ := runCLI(t, deps, "closings", "list", "--format", "json", "--limit", "2", "--page", "2")
	if code != 0 {
		t.Fatalf("exit code = %d", code)
	}
	var env struct {
		Data struct {
			Items      []domain.ClosingRecord `json:"items"`
			Total      int                    `json:"total"`
			Offset     int                    `json:"offset"`
			NextOffset int                    `json:"next_offset"`
		} `json:"data"`
	}
	if err := json.Unmarshal([]byte(stdout), &env); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	if env.Data.Total != 5 || env.Data.Offset != 2 || len(env.Data.Items) != 2 {
		t.Fatalf("unexpected page: %+v", env.Data)
	}
	if env.Data.Items[0].ID != "cls_c" {
		t.Fatalf("unexpected first row: %+v", env.Data.Items[0])
	}

	if code, _, _ := runCLI(t, deps, "closings", "list", "--page", "2"); code == 0 {
		t.Fatal("expected failure for --page without --limit")
	}
}

func TestClosingsHolidaysSave(t *testing.T) {
	store := &testStore{}
	deps, _ := testDeps(store)

	code, stdout, stderr := runCLI(t, deps, "closings", "holidays", "--year", "2024", "--country", "us", "--save")
	if code != 0 {
		t.Fatalf("exit code = %d, stderr = %q", code, stderr)
	}
	if !strings.Contains(stdout, "Christmas Day") {
		t.Fatalf("expected holiday names in output:\n%s", stdout)
	}
	if len(store.closings) == 0 {
		t.Fatal("holiday closings not saved")
	}
	for _, closing := range store.closings {
		if closing.IsActive {
			t.Fatalf("holiday suggestion saved active: %+v", closing)
		}
	}

	// Saving twice must not duplicate records.
	before := len(store.closings)
	if code, _, _ := runCLI(t, deps, "closings", "holidays", "--year", "2024", "--country", "us", "--save"); code != 0 {
		t.Fatal("second save failed")
	}
	if len(store.closings) != before {
		t.Fatalf("duplicate holiday closings: %d -> %d", before, len(store.closings))
	}
}

func TestClosingsHolidaysUnknownCountry(t *testing.T) {
	deps, _ := testDeps(&testStore{})
	if code, _, _ := runCLI(t, deps, "closings", "holidays", "--country", "atlantis"); code != 1 {
		t.Fatal("expected exit 1 for unsupported country")
	}
}

func TestMessagesLifecycle(t *testing.T) {
	store := &testStore{}
	deps, _ := testDeps(store)

	code, _, stderr := runCLI(t, deps, "messages", "set", "--text", "Live music on Friday", "--severity", "info")
	if code != 0 {
		t.Fatalf("set exit code = %d, stderr = %q", code, stderr)
	}
	if len(store.messages) != 1 {
		t.Fatalf("message not saved: %+v", store.messages)
	}
	id := store.messages[0].ID

	code, _, _ = runCLI(t, deps, "messages", "set", "--id", id, "--text", "Kitchen closes early", "--severity", "warning")
	if code != 0 {
		t.Fatalf("update exit code = %d", code)
	}
	if len(store.messages) != 1 || store.messages[0].Text != "Kitchen closes early" {
		t.Fatalf("message not updated: %+v", store.messages)
	}

	code, stdout, _ := runCLI(t, deps, "messages", "list")
	if code != 0 {
		t.Fatalf("list exit code = %d", code)
	}
	if !strings.Contains(stdout, "Kitchen closes early") || !strings.Contains(stdout, "warning") {
		t.Fatalf("expected message row:\n%s", stdout)
	}

	code, _, _ = runCLI(t, deps, "messages", "remove", "--id", id)
	if code != 0 {
		t.Fatalf("remove exit code = %d", code)
	}
	if len(store.messages) != 0 {
		t.Fatalf("message not removed: %+v", store.messages)
	}
}

func TestMessagesListActiveOnly(t *testing.T) {
	past := "2020-01-01"
	pastEnd := "2020-01-31"
	store := &testStore{messages: []domain.SpecialMessage{
		{ID: "msg_old", Text: "Gone", IsActive: true, StartDate: &past, EndDate: &pastEnd},
		{ID: "msg_now", Text: "Current", IsActive: true},
	}}
	deps, _ := testDeps(store)

	code, stdout, _ := runCLI(t, deps, "messages", "list", "--active")
	if code != 0 {
		t.Fatalf("exit code = %d", code)
	}
	if strings.Contains(stdout, "msg_old") {
		t.Fatalf("expired message listed:\n%s", stdout)
	}
	if !strings.Contains(stdout, "msg_now") {
		t.Fatalf("evergreen message missing:\n%s", stdout)
	}
}

func TestSyncPushUsesProfileDefaults(t *testing.T) {
	store := &testStore{hours: weekdaySchedule()}
	deps, publisher := testDeps(store)

	code, stdout, stderr := runCLI(t, deps, "sync", "push")
	if code != 0 {
		t.Fatalf("exit code = %d, stderr = %q stdout = %q", code, stderr, stdout)
	}
	if publisher.calls != 1 {
		t.Fatalf("publisher calls = %d", publisher.calls)
	}
	if publisher.gotLocation != "loc-9" {
		t.Errorf("location = %q, want loc-9", publisher.gotLocation)
	}
	if publisher.gotAuth.Token != "saved-token" {
		t.Errorf("token = %q, want saved-token", publisher.gotAuth.Token)
	}
	if len(publisher.gotPayload.Hours) == 0 {
		t.Error("payload hours empty")
	}
	if !strings.Contains(stdout, "accepted") {
		t.Errorf("expected accepted status:\n%s", stdout)
	}
}

func TestSyncPushFlagOverrides(t *testing.T) {
	deps, publisher := testDeps(&testStore{hours: weekdaySchedule()})

	code, _, _ := runCLI(t, deps, "sync", "push", "--token", "flag-token", "--location-id", "loc-flag")
	if code != 0 {
		t.Fatalf("exit code = %d", code)
	}
	if publisher.gotAuth.Token != "flag-token" || publisher.gotLocation != "loc-flag" {
		t.Fatalf("flag overrides ignored: %q %q", publisher.gotAuth.Token, publisher.gotLocation)
	}
}

func TestSyncPushRequiresCredentials(t *testing.T) {
	deps, publisher := testDeps(&testStore{hours: weekdaySchedule()})
	deps.Restaurants = &testRestaurantResolver{restaurant: domain.Restaurant{Name: "Bare"}}

	code, stdout, _ := runCLI(t, deps, "sync", "push")
	if code != 1 {
		t.Fatalf("exit code = %d, want 1", code)
	}
	if publisher.calls != 0 {
		t.Fatal("publisher called without credentials")
	}
	if !strings.Contains(stdout, "token") {
		t.Fatalf("expected token guidance:\n%s", stdout)
	}
}

func TestSyncPushUpstreamErrorHidesDetailWithoutVerbose(t *testing.T) {
	deps, publisher := testDeps(&testStore{hours: weekdaySchedule()})
	publisher.err = &business.UpstreamRequestError{StatusCode: 503}

	code, stdout, _ := runCLI(t, deps, "sync", "push")
	if code != 1 {
		t.Fatalf("exit code = %d, want 1", code)
	}
	if !strings.Contains(stdout, "status 503") || !strings.Contains(stdout, "--verbose") {
		t.Fatalf("expected compact upstream error:\n%s", stdout)
	}
}

func TestConfigureCreatesAndUpdates(t *testing.T) {
	manager := &testConfigManager{loadErr: errTestBoom}
	deps, _ := testDeps(&testStore{})
	deps.Config = manager

	code, _, stderr := runCLI(t, deps,
		"configure",
		"--restaurant-name", "Trattoria",
		"--timezone", "Europe/Helsinki",
		"--locale", "fi",
		"--redis-addr", "localhost:6379",
	)
	if code != 0 {
		t.Fatalf("create exit code = %d, stderr = %q", code, stderr)
	}
	if manager.saved == nil || len(manager.saved.Restaurants) != 1 {
		t.Fatalf("config not saved: %+v", manager.saved)
	}
	created := manager.saved.Restaurants[0]
	if !created.IsDefault || created.Timezone != "Europe/Helsinki" || created.Redis.Addr != "localhost:6379" {
		t.Fatalf("unexpected profile: %+v", created)
	}

	manager.loadErr = nil
	manager.cfg = *manager.saved
	code, _, _ = runCLI(t, deps, "configure", "--restaurant-name", "Trattoria", "--locale", "it")
	if code != 0 {
		t.Fatalf("update exit code = %d", code)
	}
	updated := manager.saved.Restaurants[0]
	if updated.Locale != "it" {
		t.Errorf("locale not updated: %+v", updated)
	}
	if updated.Timezone != "Europe/Helsinki" {
		t.Errorf("untouched field changed: %+v", updated)
	}
}
