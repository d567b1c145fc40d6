package mediate

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/suite"
)

type auditCmd struct {
	ID string
}

type reportCmd struct {
	ID string
}

type PipelineSuite struct {
	suite.Suite

	trace []string
}

func TestPipelineSuite(t *testing.T) {
	suite.Run(t, new(PipelineSuite))
}

func (s *PipelineSuite) SetupTest() {
	s.trace = nil
}

func (s *PipelineSuite) log(entry string) {
	s.trace = append(s.trace, entry)
}

// builder returns a Builder with an auditCmd handler that logs "handler".
func (s *PipelineSuite) builder() *Builder {
	b := NewBuilder()
	RegisterCommandFunc(b, func(ctx context.Context, c auditCmd) (string, error) {
		s.log("handler")
		return "ok:" + c.ID, nil
	})
	return b
}

func (s *PipelineSuite) send(b *Builder) (string, error) {
	d, err := b.Build()
	s.Require().NoError(err)
	return Send[auditCmd, string](context.Background(), d, auditCmd{ID: "a-1"})
}

func (s *PipelineSuite) TestZeroHooksPassThrough() {
	res, err := s.send(s.builder())

	s.NoError(err)
	s.Equal("ok:a-1", res)
	s.Equal([]string{"handler"}, s.trace)
}

func (s *PipelineSuite) TestPreHooksRunInSortedOrder() {
	b := s.builder()
	b.Pre(AllCommands(), 10, func(ctx context.Context, cmd any) error {
		s.log("pre:10")
		return nil
	})
	b.Pre(AllCommands(), 0, func(ctx context.Context, cmd any) error {
		s.log("pre:0")
		return nil
	})
	b.Pre(AllCommands(), 5, func(ctx context.Context, cmd any) error {
		s.log("pre:5")
		return nil
	})

	_, err := s.send(b)

	s.NoError(err)
	s.Equal([]string{"pre:0", "pre:5", "pre:10", "handler"}, s.trace)
}

func (s *PipelineSuite) TestRegistrationSequenceBreaksOrderTies() {
	b := s.builder()
	b.Pre(AllCommands(), 0, func(ctx context.Context, cmd any) error {
		s.log("first-registered")
		return nil
	})
	b.Pre(AllCommands(), 0, func(ctx context.Context, cmd any) error {
		s.log("second-registered")
		return nil
	})

	_, err := s.send(b)

	s.NoError(err)
	s.Equal([]string{"first-registered", "second-registered", "handler"}, s.trace)
}

func (s *PipelineSuite) TestAroundHooksNestLowestOrderOutermost() {
	b := s.builder()
	b.Around(AllCommands(), 1, func(ctx context.Context, cmd any, next Next) (any, error) {
		s.log("B.before")
		res, err := next(ctx)
		s.log("B.after")
		return res, err
	})
	b.Around(AllCommands(), 0, func(ctx context.Context, cmd any, next Next) (any, error) {
		s.log("A.before")
		res, err := next(ctx)
		s.log("A.after")
		return res, err
	})

	res, err := s.send(b)

	s.NoError(err)
	s.Equal("ok:a-1", res)
	s.Equal([]string{"A.before", "B.before", "handler", "B.after", "A.after"}, s.trace)
}

func (s *PipelineSuite) TestPostHooksReceiveCommandAndResult() {
	b := s.builder()
	b.Post(AllCommands(), 0, func(ctx context.Context, cmd any, result any) error {
		c := cmd.(auditCmd)
		s.log(fmt.Sprintf("post:%s:%v", c.ID, result))
		return nil
	})

	_, err := s.send(b)

	s.NoError(err)
	s.Equal([]string{"handler", "post:a-1:ok:a-1"}, s.trace)
}

func (s *PipelineSuite) TestPreFailureSkipsHandlerAndPost() {
	preErr := errors.New("pre failed")
	b := s.builder()
	b.Pre(AllCommands(), 0, func(ctx context.Context, cmd any) error {
		return preErr
	})
	b.Post(AllCommands(), 0, func(ctx context.Context, cmd any, result any) error {
		s.log("post")
		return nil
	})

	_, err := s.send(b)

	s.ErrorIs(err, preErr)
	s.Empty(s.trace)

	var ee *ExecutionError
	s.Require().ErrorAs(err, &ee)
	s.Equal(StagePre, ee.Stage)
}

func (s *PipelineSuite) TestOnErrorObservesButCannotSuppress() {
	handlerErr := errors.New("handler failed")
	b := NewBuilder()
	RegisterCommandFunc(b, func(ctx context.Context, c auditCmd) (string, error) {
		return "", handlerErr
	})
	b.OnError(AllCommands(), 0, func(ctx context.Context, cmd any, err error) {
		s.log("observed:" + errors.Unwrap(err).Error())
	})

	_, err := s.send(b)

	s.ErrorIs(err, handlerErr)
	s.Equal([]string{"observed:handler failed"}, s.trace)
}

func (s *PipelineSuite) TestOnErrorHooksRunInSortedOrder() {
	b := NewBuilder()
	RegisterCommandFunc(b, func(ctx context.Context, c auditCmd) (string, error) {
		return "", errors.New("handler failed")
	})
	b.OnError(AllCommands(), 1, func(ctx context.Context, cmd any, err error) {
		s.log("observe:1")
	})
	b.OnError(AllCommands(), 0, func(ctx context.Context, cmd any, err error) {
		s.log("observe:0")
	})

	_, err := s.send(b)

	s.Error(err)
	s.Equal([]string{"observe:0", "observe:1"}, s.trace)
}

func (s *PipelineSuite) TestExactScopeDoesNotLeakAcrossCommands() {
	b := s.builder()
	RegisterCommandFunc(b, func(ctx context.Context, c reportCmd) (string, error) {
		s.log("report-handler")
		return "report", nil
	})
	b.Pre(ForCommand[reportCmd](), 0, func(ctx context.Context, cmd any) error {
		s.log("report-pre")
		return nil
	})

	d, err := b.Build()
	s.Require().NoError(err)

	_, err = Send[auditCmd, string](context.Background(), d, auditCmd{ID: "a-1"})
	s.NoError(err)
	s.Equal([]string{"handler"}, s.trace)

	s.trace = nil
	_, err = Send[reportCmd, string](context.Background(), d, reportCmd{ID: "r-1"})
	s.NoError(err)
	s.Equal([]string{"report-pre", "report-handler"}, s.trace)
}

func (s *PipelineSuite) TestOpenScopeAppliesToEveryMatchingCommand() {
	b := s.builder()
	RegisterCommandFunc(b, func(ctx context.Context, c reportCmd) (string, error) {
		return "report", nil
	})
	b.Pre(AllCommands(), 0, func(ctx context.Context, cmd any) error {
		s.log(fmt.Sprintf("pre:%T", cmd))
		return nil
	})

	d, err := b.Build()
	s.Require().NoError(err)

	_, err = Send[auditCmd, string](context.Background(), d, auditCmd{ID: "a-1"})
	s.NoError(err)
	_, err = Send[reportCmd, string](context.Background(), d, reportCmd{ID: "r-1"})
	s.NoError(err)

	s.Contains(s.trace, "pre:mediate.auditCmd")
	s.Contains(s.trace, "pre:mediate.reportCmd")
}

func (s *PipelineSuite) TestCancellationObservedBetweenStages() {
	ctx, cancel := context.WithCancel(context.Background())
	b := s.builder()
	b.Pre(AllCommands(), 0, func(ctx context.Context, cmd any) error {
		cancel()
		return nil
	})

	d, err := b.Build()
	s.Require().NoError(err)

	_, err = Send[auditCmd, string](ctx, d, auditCmd{ID: "a-1"})

	s.ErrorIs(err, context.Canceled)
	s.Empty(s.trace)
}

func (s *PipelineSuite) TestAroundContextReachesHandler() {
	type ctxKey string
	b := NewBuilder()
	var handlerCtx context.Context
	RegisterCommandFunc(b, func(ctx context.Context, c auditCmd) (string, error) {
		handlerCtx = ctx
		return "ok", nil
	})
	b.Around(AllCommands(), 0, func(ctx context.Context, cmd any, next Next) (any, error) {
		return next(context.WithValue(ctx, ctxKey("trace"), "t-1"))
	})

	_, err := s.send(b)

	s.NoError(err)
	s.Equal("t-1", handlerCtx.Value(ctxKey("trace")))
}

func (s *PipelineSuite) TestSumScenario() {
	type sum struct{ A, B int }

	b := NewBuilder()
	RegisterCommandFunc(b, func(ctx context.Context, c sum) (int, error) {
		return c.A + c.B, nil
	})
	b.Pre(AllCommands(), 0, func(ctx context.Context, cmd any) error {
		s.log("pre")
		return nil
	})
	b.Post(AllCommands(), 0, func(ctx context.Context, cmd any, result any) error {
		s.log(fmt.Sprintf("post:%v", result))
		return nil
	})

	d, err := b.Build()
	s.Require().NoError(err)

	res, err := Send[sum, int](context.Background(), d, sum{A: 2, B: 3})

	s.NoError(err)
	s.Equal(5, res)
	s.Equal([]string{"pre", "post:5"}, s.trace)
}

func (s *PipelineSuite) TestIdenticalScriptsProduceIdenticalTraces() {
	script := func(trace *[]string) *Dispatcher {
		b := NewBuilder()
		RegisterCommandFunc(b, func(ctx context.Context, c auditCmd) (string, error) {
			*trace = append(*trace, "handler")
			return "ok", nil
		})
		b.Pre(AllCommands(), 1, func(ctx context.Context, cmd any) error {
			*trace = append(*trace, "pre:1")
			return nil
		})
		b.Pre(AllCommands(), 0, func(ctx context.Context, cmd any) error {
			*trace = append(*trace, "pre:0")
			return nil
		})
		b.Around(AllCommands(), 0, func(ctx context.Context, cmd any, next Next) (any, error) {
			*trace = append(*trace, "around.before")
			res, err := next(ctx)
			*trace = append(*trace, "around.after")
			return res, err
		})
		b.Post(AllCommands(), 0, func(ctx context.Context, cmd any, result any) error {
			*trace = append(*trace, "post")
			return nil
		})
		d, err := b.Build()
		s.Require().NoError(err)
		return d
	}

	var first, second []string
	d1 := script(&first)
	d2 := script(&second)

	_, err := Send[auditCmd, string](context.Background(), d1, auditCmd{ID: "a-1"})
	s.NoError(err)
	_, err = Send[auditCmd, string](context.Background(), d2, auditCmd{ID: "a-1"})
	s.NoError(err)

	s.Equal(first, second)
	s.Equal([]string{"pre:0", "pre:1", "around.before", "handler", "around.after", "post"}, first)
}
