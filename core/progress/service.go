package progress

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/trezcool/huda/core"
	"github.com/trezcool/huda/core/course"
	"github.com/trezcool/huda/core/sheet"
	"github.com/trezcool/huda/core/task"
)

var (
	nowFunc = time.Now // mockable

	ErrAlreadyCompleted = errors.New("already completed")
	ErrOverdue          = errors.New("task is overdue and can no longer be submitted")
	ErrUnknownItem      = errors.New("unknown item")
	ErrNothingToSubmit  = errors.New("no items to submit")
)

// maxConcurrentWrites bounds the appends in flight for one batch.
const maxConcurrentWrites = 8

// Outcome is what happened to one item of a completion request.
type Outcome int

const (
	Submitted Outcome = iota
	AlreadyCompleted
	Rejected
	AckUnknown // the write was sent but its acknowledgement was not understood
	Failed
)

var outcomeNames = [...]string{"submitted", "already_completed", "rejected", "ack_unknown", "failed"}

func (o Outcome) String() string {
	if o < Submitted || o > Failed {
		return "unknown"
	}
	return outcomeNames[o]
}

func (o Outcome) MarshalText() ([]byte, error) { return []byte(o.String()), nil }

func (o *Outcome) UnmarshalText(text []byte) error {
	for i, name := range outcomeNames {
		if name == string(text) {
			*o = Outcome(i)
			return nil
		}
	}
	return fmt.Errorf("unknown outcome %q", text)
}

type (
	// ItemResult reports a single completion. Err is set for every outcome but Submitted.
	ItemResult struct {
		ItemID  string    `json:"item_id"`
		Outcome Outcome   `json:"outcome"`
		Ack     sheet.Ack `json:"ack"`
		Err     error     `json:"-"`
	}

	QuizResult struct {
		ItemResult
		Score course.Score `json:"score"`
	}

	// SubmitOptions tunes SubmitTasks. Admins assigning completion may allow overdue tasks.
	SubmitOptions struct {
		AllowOverdue bool
	}

	// Status is the progress dashboard of a student.
	Status struct {
		Tasks         Counts        `json:"tasks"`
		Courses       CourseCounts  `json:"courses"`
		TaskPercent   int           `json:"task_percent"`
		CoursePercent int           `json:"course_percent"`
		WeekStart     string        `json:"week_start"`
		Weekly        [7]int        `json:"weekly"`
		Subjects      []SubjectCard `json:"subjects"`
		CoursesOK     bool          `json:"courses_ok"` // false when the courses sheet could not be read
	}

	Service struct {
		store     sheet.Store
		rec       Reconciler
		taskGrade int
		logger    core.Logger
	}
)

func (r ItemResult) Error() string {
	if r.Err == nil {
		return ""
	}
	return r.Err.Error()
}

func NewService(store sheet.Store, conf *core.Config, logger core.Logger) *Service {
	return &Service{
		store:     store,
		rec:       NewReconciler(conf.Progress),
		taskGrade: conf.Progress.TaskGrade,
		logger:    logger,
	}
}

func (svc *Service) Reconciler() Reconciler { return svc.rec }

// Log returns the progress log of username. A log that does not exist yet is empty.
func (svc *Service) Log(ctx context.Context, username string, useCache ...bool) ([]Record, error) {
	name, err := sheet.ProgressFor(username)
	if err != nil {
		return nil, err
	}
	rows, err := svc.store.FetchSheet(ctx, name, useCache...)
	if err != nil {
		if sheet.IsNotFound(err) {
			return []Record{}, nil
		}
		return nil, errors.Wrap(err, "fetching progress")
	}
	return RecordsFromRows(rows), nil
}

// Tasks returns the tasks of class. A tasks sheet that does not exist yet is empty.
func (svc *Service) Tasks(ctx context.Context, class string) ([]task.Task, error) {
	name, err := sheet.TasksFor(class)
	if err != nil {
		return nil, err
	}
	rows, err := svc.store.FetchSheet(ctx, name)
	if err != nil {
		if sheet.IsNotFound(err) {
			return []task.Task{}, nil
		}
		return nil, errors.Wrap(err, "fetching tasks")
	}
	return task.FromRows(rows), nil
}

// load fetches the tasks of class and the progress log of username concurrently.
func (svc *Service) load(ctx context.Context, username, class string, freshLog bool) ([]task.Task, []Record, error) {
	if !core.IsValidClass(class) {
		return nil, nil, sheet.ErrInvalidClass
	}
	var (
		tasks []task.Task
		log   []Record
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		tasks, err = svc.Tasks(gctx, class)
		return err
	})
	g.Go(func() error {
		var err error
		log, err = svc.Log(gctx, username, !freshLog)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return tasks, log, nil
}

// TaskBoard returns the task dashboard of a student of class.
func (svc *Service) TaskBoard(ctx context.Context, username, class string) (Board, error) {
	tasks, log, err := svc.load(ctx, username, class, false)
	if err != nil {
		return Board{}, err
	}
	return svc.rec.Board(tasks, log, nowFunc()), nil
}

// SubmitTasks records the completion of taskIDs for username. Items are independent:
// every item gets its own result, in request order, and writes are issued concurrently.
func (svc *Service) SubmitTasks(ctx context.Context, username, class string, taskIDs []string, opts ...SubmitOptions) ([]ItemResult, error) {
	var opt SubmitOptions
	if len(opts) > 0 {
		opt = opts[0]
	}
	ids := dedupe(taskIDs)
	if len(ids) == 0 {
		return nil, core.NewFieldError("task_ids", ErrNothingToSubmit)
	}

	tasks, log, err := svc.load(ctx, username, class, true)
	if err != nil {
		return nil, err
	}
	progressSheet, _ := sheet.ProgressFor(username)
	now := nowFunc()

	results := make([]ItemResult, len(ids))
	var pending []int
	for i, id := range ids {
		results[i].ItemID = id
		t, ok := task.ByID(tasks, id)
		switch {
		case !ok:
			results[i].Outcome, results[i].Err = Rejected, ErrUnknownItem
		case IsComplete(log, t.ID, task.ItemType):
			results[i].Outcome, results[i].Err = AlreadyCompleted, ErrAlreadyCompleted
		case !opt.AllowOverdue && svc.rec.Classify(t, log, now) == Overdue:
			results[i].Outcome, results[i].Err = Rejected, ErrOverdue
		default:
			pending = append(pending, i)
		}
	}

	var g errgroup.Group
	g.SetLimit(maxConcurrentWrites)
	for _, i := range pending {
		i := i
		g.Go(func() error {
			row := CompletionRow(results[i].ItemID, task.ItemType, now, svc.taskGrade)
			results[i] = svc.append(ctx, progressSheet, results[i].ItemID, row)
			return nil
		})
	}
	_ = g.Wait()
	return results, nil
}

// CompleteCourse records the completion of a text or video course with full marks.
// Quizzes are completed through SubmitQuiz.
func (svc *Service) CompleteCourse(ctx context.Context, username, courseID string) (ItemResult, error) {
	courseID = strings.TrimSpace(courseID)
	if _, ok := course.QuizCourseByID(courseID); ok {
		return ItemResult{}, core.NewValidationError(errors.New("quizzes must be submitted with answers"))
	}
	if _, ok := course.VideoCourseByID(courseID); !ok {
		rows, err := svc.store.FetchSheet(ctx, sheet.Courses)
		if err != nil && !sheet.IsNotFound(err) {
			return ItemResult{}, errors.Wrap(err, "fetching courses")
		}
		var found bool
		for _, c := range course.FromRows(rows) {
			if c.ID == courseID {
				found = true
				break
			}
		}
		if !found {
			return ItemResult{ItemID: courseID, Outcome: Rejected, Err: ErrUnknownItem}, nil
		}
	}
	return svc.completeCourse(ctx, username, courseID, 100)
}

// SubmitQuiz grades answers and records the score as the quiz grade.
func (svc *Service) SubmitQuiz(ctx context.Context, username, quizID string, answers []int) (QuizResult, error) {
	quizID = strings.TrimSpace(quizID)
	quiz, ok := course.QuizCourseByID(quizID)
	if !ok {
		return QuizResult{ItemResult: ItemResult{ItemID: quizID, Outcome: Rejected, Err: ErrUnknownItem}}, nil
	}
	score := quiz.Grade(answers)
	res, err := svc.completeCourse(ctx, username, quiz.ID, score.Percent)
	if err != nil {
		return QuizResult{}, err
	}
	qr := QuizResult{ItemResult: res}
	if res.Outcome != AlreadyCompleted {
		qr.Score = score
	}
	return qr, nil
}

func (svc *Service) completeCourse(ctx context.Context, username, courseID string, grade int) (ItemResult, error) {
	log, err := svc.Log(ctx, username, false)
	if err != nil {
		return ItemResult{}, err
	}
	if IsComplete(log, courseID, course.ItemType) {
		return ItemResult{ItemID: courseID, Outcome: AlreadyCompleted, Err: ErrAlreadyCompleted}, nil
	}
	progressSheet, _ := sheet.ProgressFor(username)
	row := CompletionRow(courseID, course.ItemType, nowFunc(), grade)
	return svc.append(ctx, progressSheet, courseID, row), nil
}

func (svc *Service) append(ctx context.Context, progressSheet, itemID string, row []string) ItemResult {
	res := ItemResult{ItemID: itemID}
	ack, err := svc.store.AppendRow(ctx, progressSheet, row)
	res.Ack = ack
	switch {
	case err != nil:
		res.Outcome, res.Err = Failed, err
	case ack.Kind == sheet.AckSuccess:
		res.Outcome = Submitted
	case ack.Kind == sheet.AckFailure:
		res.Outcome, res.Err = Failed, ack.Err(progressSheet)
	default:
		res.Outcome, res.Err = AckUnknown, ack.Err(progressSheet)
	}
	if res.Err != nil && svc.logger != nil {
		svc.logger.Warn(fmt.Sprintf("recording completion of %q in %q: %v", itemID, progressSheet, res.Err))
	}
	return res
}

// Courses lists every course with its completion state for username.
func (svc *Service) Courses(ctx context.Context, username string) (CourseBoard, error) {
	var (
		courses []course.Course
		log     []Record
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		courses, _ = svc.fetchCourses(gctx)
		return nil
	})
	g.Go(func() error {
		var err error
		log, err = svc.Log(gctx, username)
		return err
	})
	if err := g.Wait(); err != nil {
		return CourseBoard{}, err
	}
	return Courses(courses, log), nil
}

// fetchCourses reads the courses master sheet. Bundled courses do not depend on it,
// so failing to read it only drops the text courses.
func (svc *Service) fetchCourses(ctx context.Context) ([]course.Course, bool) {
	rows, err := svc.store.FetchSheet(ctx, sheet.Courses)
	if err != nil {
		if svc.logger != nil {
			svc.logger.Warn(fmt.Sprintf("courses unavailable: %v", err))
		}
		return nil, false
	}
	return course.FromRows(rows), true
}

// Status computes the progress dashboard of username. class may be empty for users without one.
func (svc *Service) Status(ctx context.Context, username, class string) (Status, error) {
	var (
		tasks     []task.Task
		log       []Record
		courses   []course.Course
		coursesOK bool
	)
	g, gctx := errgroup.WithContext(ctx)
	if core.IsValidClass(class) {
		g.Go(func() error {
			var err error
			tasks, err = svc.Tasks(gctx, class)
			return err
		})
	}
	g.Go(func() error {
		var err error
		log, err = svc.Log(gctx, username)
		return err
	})
	g.Go(func() error {
		courses, coursesOK = svc.fetchCourses(gctx)
		return nil
	})
	if err := g.Wait(); err != nil {
		return Status{}, err
	}

	now := nowFunc()
	board := svc.rec.Board(tasks, log, now)
	cc := CountCourses(courses, course.VideoCourses, course.QuizCourses, log)
	return Status{
		Tasks:         board.Counts,
		Courses:       cc,
		TaskPercent:   Percent(board.Counts.Completed, board.Counts.Total),
		CoursePercent: Percent(cc.Completed, cc.Total),
		WeekStart:     core.FormatDate(core.StartOfWeek(now)),
		Weekly:        WeeklyActivity(log, now),
		Subjects:      board.Subjects,
		CoursesOK:     coursesOK,
	}, nil
}

func dedupe(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
