package usecase

import (
	"context"
	"errors"
	"testing"

	"menuCms/internal/modules/menus/domain"
	restaurants "menuCms/internal/modules/restaurants/domain"
)

func TestGetWeekMenuDefaultsWhenMissing(t *testing.T) {
	f := newFixture()
	week, err := f.service.GetWeekMenu(context.Background(), "bufet", week15)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if week.Status != domain.StatusDraft || week.WeekStart != week15 {
		t.Fatalf("unexpected default week %+v", week)
	}
	if !week.Days[5].Closed || !week.Days[6].Closed || week.Days[0].Closed {
		t.Fatalf("expected only the weekend closed")
	}
	if f.store.saves != 0 {
		t.Fatalf("reading must not write")
	}
}

func TestGetWeekMenuUnknownRestaurant(t *testing.T) {
	f := newFixture()
	_, err := f.service.GetWeekMenu(context.Background(), "pizzeria", week15)
	if !errors.Is(err, restaurants.ErrUnknownRestaurant) {
		t.Fatalf("expected ErrUnknownRestaurant, got %v", err)
	}
}

func TestSaveThenGetRoundTrip(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	week, err := domain.BuildWeekMenuFromSubmission(week15, gulasSubmission(), domain.DefaultSettings())
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if _, err := f.service.SaveWeekMenu(ctx, "bufet", week15, week, editor); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := f.service.GetWeekMenu(ctx, "bufet", week15)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	monday := got.Days[0].Dishes
	if len(monday) != 3 {
		t.Fatalf("expected 3 Monday dishes, got %d", len(monday))
	}
	if monday[1].Name != "Guláš" || monday[1].Price != 120 || !monday[1].GlutenFree {
		t.Fatalf("unexpected second dish %+v", monday[1])
	}
	if monday[2].Name != "Smažený sýr" || !monday[2].Vegetarian {
		t.Fatalf("unexpected third dish %+v", monday[2])
	}
	if !got.Days[2].Closed || got.Days[2].ClosedNote != "Státní svátek" {
		t.Fatalf("expected Wednesday closed with note, got %+v", got.Days[2])
	}
	if got.LastModified == nil || !got.LastModified.Equal(fixedNow) || got.ModifiedBy != "admin" {
		t.Fatalf("expected modification stamp, got %v %q", got.LastModified, got.ModifiedBy)
	}
}

func TestSubmitWeekMenuSavesDraft(t *testing.T) {
	f := newFixture()
	out, err := f.service.SubmitWeekMenu(context.Background(), SubmitInput{
		RestaurantID: "bufet",
		WeekStart:    "2024-01-15",
		Action:       ActionSave,
		Submission:   gulasSubmission(),
	}, editor)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if out.Week.Status != domain.StatusDraft || out.Week.PublishedAt != nil {
		t.Fatalf("expected draft, got %s", out.Week.Status)
	}
	if len(f.activity.entries) != 1 || f.activity.entries[0].Action != domain.ActivityMenuSaved {
		t.Fatalf("expected one menu_saved entry, got %+v", f.activity.entries)
	}
	if got := f.activity.entries[0].Details["action"]; got != ActionSave {
		t.Fatalf("activity action detail = %q", got)
	}
	if len(f.events.messages) != 1 || f.events.messages[0].Topic != "menus.saved" {
		t.Fatalf("expected menus.saved event, got %+v", f.events.messages)
	}
}

func TestSubmitWeekMenuPublishes(t *testing.T) {
	f := newFixture()
	out, err := f.service.SubmitWeekMenu(context.Background(), SubmitInput{
		RestaurantID: "bufet",
		WeekStart:    "2024-01-15",
		Action:       ActionPublish,
		Submission:   gulasSubmission(),
	}, editor)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if out.Week.Status != domain.StatusPublished {
		t.Fatalf("expected published, got %s", out.Week.Status)
	}
	if out.Week.PublishedAt == nil || !out.Week.PublishedAt.Equal(fixedNow) {
		t.Fatalf("expected publishedAt to be stamped, got %v", out.Week.PublishedAt)
	}
	if f.events.messages[0].Topic != "menus.published" {
		t.Fatalf("expected menus.published, got %s", f.events.messages[0].Topic)
	}
}

func TestSubmitWeekMenuKeepsPublishedOnSave(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	input := SubmitInput{RestaurantID: "bufet", WeekStart: "2024-01-15", Action: ActionPublish, Submission: gulasSubmission()}
	first, err := f.service.SubmitWeekMenu(ctx, input, editor)
	if err != nil {
		t.Fatalf("publish: %v", err)
	}
	input.Action = ActionSave
	second, err := f.service.SubmitWeekMenu(ctx, input, editor)
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if second.Week.Status != domain.StatusPublished {
		t.Fatalf("saving a published week must keep it published")
	}
	if second.Week.PublishedAt == nil || !second.Week.PublishedAt.Equal(*first.Week.PublishedAt) {
		t.Fatalf("publishedAt changed: %v", second.Week.PublishedAt)
	}
}

func TestSubmitWeekMenuNormalizesWeekToMonday(t *testing.T) {
	f := newFixture()
	out, err := f.service.SubmitWeekMenu(context.Background(), SubmitInput{
		RestaurantID: "BUFET",
		WeekStart:    "2024-01-18",
		Submission:   gulasSubmission(),
	}, editor)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if out.Week.WeekStart != week15 || out.RestaurantID != "bufet" {
		t.Fatalf("expected bufet/2024-01-15, got %s/%s", out.RestaurantID, out.Week.WeekStart)
	}
	if _, ok := f.store.doc.Week("bufet", week15); !ok {
		t.Fatalf("week not stored under Monday key")
	}
}

func TestSubmitWeekMenuRejections(t *testing.T) {
	cases := []struct {
		name  string
		input SubmitInput
		want  error
	}{
		{"unknown restaurant", SubmitInput{RestaurantID: "pizzeria", WeekStart: "2024-01-15"}, restaurants.ErrUnknownRestaurant},
		{"bad week", SubmitInput{RestaurantID: "bufet", WeekStart: "15.1.2024"}, domain.ErrInvalidWeek},
		{"bad action", SubmitInput{RestaurantID: "bufet", WeekStart: "2024-01-15", Action: "delete"}, domain.ErrInvalidAction},
		{"negative price", SubmitInput{RestaurantID: "bufet", WeekStart: "2024-01-15", Submission: domain.Submission{Days: map[string]domain.DaySubmission{
			"0": {Dishes: map[string][]domain.DishSubmission{"main": {{Name: "Guláš", Price: "-5"}}}},
		}}}, domain.ErrValidation},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture()
			_, err := f.service.SubmitWeekMenu(context.Background(), tc.input, editor)
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
			if f.store.saves != 0 {
				t.Fatalf("rejected submission must not be stored")
			}
			if len(f.events.messages) != 0 {
				t.Fatalf("rejected submission must not emit events")
			}
		})
	}
}

func TestSubmitWeekMenuStoreFailure(t *testing.T) {
	f := newFixture()
	f.store.saveErr = errDiskFull
	_, err := f.service.SubmitWeekMenu(context.Background(), SubmitInput{
		RestaurantID: "bufet",
		WeekStart:    "2024-01-15",
		Submission:   gulasSubmission(),
	}, editor)
	if !errors.Is(err, domain.ErrStore) {
		t.Fatalf("expected ErrStore, got %v", err)
	}
	if len(f.activity.entries) != 0 || len(f.events.messages) != 0 {
		t.Fatalf("failed save must not log or emit")
	}
}

func TestSubmitWeekMenuIgnoresPublisherFailure(t *testing.T) {
	f := newFixture()
	f.events.err = errors.New("broker down")
	if _, err := f.service.SubmitWeekMenu(context.Background(), SubmitInput{
		RestaurantID: "bufet",
		WeekStart:    "2024-01-15",
		Submission:   gulasSubmission(),
	}, editor); err != nil {
		t.Fatalf("publisher failure must not fail the save: %v", err)
	}
}

func TestPublishWeekMenu(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	if _, err := f.service.PublishWeekMenu(ctx, "bufet", week15, editor); !errors.Is(err, domain.ErrMenuNotFound) {
		t.Fatalf("expected ErrMenuNotFound, got %v", err)
	}

	if _, err := f.service.SubmitWeekMenu(ctx, SubmitInput{RestaurantID: "bufet", WeekStart: "2024-01-15", Submission: gulasSubmission()}, editor); err != nil {
		t.Fatalf("submit: %v", err)
	}
	published, err := f.service.PublishWeekMenu(ctx, "bufet", week15, editor)
	if err != nil {
		t.Fatalf("publish: %v", err)
	}
	if !published.IsPublished() || published.PublishedAt == nil {
		t.Fatalf("expected published week, got %+v", published)
	}
	last := f.activity.entries[len(f.activity.entries)-1]
	if last.Action != domain.ActivityMenuPublished {
		t.Fatalf("expected menu_published entry, got %s", last.Action)
	}
}

func TestCopyWeekMenu(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	if _, err := f.service.SubmitWeekMenu(ctx, SubmitInput{RestaurantID: "bufet", WeekStart: "2024-01-15", Action: ActionPublish, Submission: gulasSubmission()}, editor); err != nil {
		t.Fatalf("submit: %v", err)
	}

	copied, err := f.service.CopyWeekMenu(ctx, "bufet", week15, week22, editor)
	if err != nil {
		t.Fatalf("copy: %v", err)
	}
	if copied.Status != domain.StatusDraft || copied.PublishedAt != nil {
		t.Fatalf("copy must be a draft, got %s", copied.Status)
	}
	if copied.WeekStart != week22 || copied.Days[0].Date != week22 {
		t.Fatalf("copy must carry the target dates, got %s", copied.WeekStart)
	}
	source, _ := f.store.doc.Week("bufet", week15)
	if len(copied.Days[0].Dishes) != len(source.Days[0].Dishes) {
		t.Fatalf("Monday dishes differ")
	}
	for i := range source.Days[0].Dishes {
		if copied.Days[0].Dishes[i] != source.Days[0].Dishes[i] {
			t.Fatalf("dish %d differs: %+v vs %+v", i, copied.Days[0].Dishes[i], source.Days[0].Dishes[i])
		}
	}
	if !copied.Days[2].Closed || copied.Days[2].ClosedNote != "Státní svátek" {
		t.Fatalf("closed flag and note must be copied")
	}
	if !source.IsPublished() {
		t.Fatalf("source must stay published")
	}
	last := f.events.messages[len(f.events.messages)-1]
	if last.Topic != "menus.copied" || last.ResourceID != "bufet:2024-01-22" {
		t.Fatalf("unexpected copy event %+v", last)
	}
}

func TestCopyWeekMenuEmptySourceLeavesTargetUntouched(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	if _, err := f.service.SubmitWeekMenu(ctx, SubmitInput{RestaurantID: "bufet", WeekStart: "2024-01-22", Submission: gulasSubmission()}, editor); err != nil {
		t.Fatalf("submit: %v", err)
	}
	before, _ := f.store.doc.Week("bufet", week22)

	_, err := f.service.CopyWeekMenu(ctx, "bufet", week08, week22, editor)
	if !errors.Is(err, domain.ErrEmptySource) {
		t.Fatalf("expected ErrEmptySource, got %v", err)
	}
	after, _ := f.store.doc.Week("bufet", week22)
	if len(after.Days[0].Dishes) != len(before.Days[0].Dishes) || after.Days[0].Dishes[0] != before.Days[0].Dishes[0] {
		t.Fatalf("target week changed after a rejected copy")
	}
}

func TestCopyWeekMenuHolidayWeek(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	holiday := domain.Submission{Days: map[string]domain.DaySubmission{}}
	for _, key := range []string{"0", "1", "2", "3", "4"} {
		holiday.Days[key] = domain.DaySubmission{Closed: "1", ClosedNote: "Dovolená"}
	}
	if _, err := f.service.SubmitWeekMenu(ctx, SubmitInput{RestaurantID: "bufet", WeekStart: "2024-01-15", Submission: holiday}, editor); err != nil {
		t.Fatalf("submit: %v", err)
	}

	copied, err := f.service.CopyWeekMenu(ctx, "bufet", week15, week22, editor)
	if err != nil {
		t.Fatalf("copying a week closed throughout must succeed: %v", err)
	}
	for i := 0; i < 5; i++ {
		if !copied.Days[i].Closed || copied.Days[i].ClosedNote != "Dovolená" {
			t.Fatalf("day %d not copied: %+v", i, copied.Days[i])
		}
	}
}

func TestCopyWeekMenuRejectsSameWeek(t *testing.T) {
	f := newFixture()
	_, err := f.service.CopyWeekMenu(context.Background(), "bufet", week15, domain.NewDate(2024, 1, 19), editor)
	if !errors.Is(err, domain.ErrInvalidWeek) {
		t.Fatalf("expected ErrInvalidWeek, got %v", err)
	}
}

func TestAvailableWeeks(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	for _, ws := range []string{"2024-01-08", "2024-01-22", "2024-01-15"} {
		if _, err := f.service.SubmitWeekMenu(ctx, SubmitInput{RestaurantID: "bufet", WeekStart: ws, Submission: gulasSubmission()}, editor); err != nil {
			t.Fatalf("submit %s: %v", ws, err)
		}
	}
	weeks, err := f.service.AvailableWeeks(ctx, "bufet", 2)
	if err != nil {
		t.Fatalf("available weeks: %v", err)
	}
	if len(weeks) != 2 || weeks[0] != "2024-01-22" || weeks[1] != "2024-01-15" {
		t.Fatalf("unexpected weeks %v", weeks)
	}
	other, err := f.service.AvailableWeeks(ctx, "caffe", 0)
	if err != nil || len(other) != 0 {
		t.Fatalf("expected no caffe weeks, got %v %v", other, err)
	}
}
