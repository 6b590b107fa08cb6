package commands

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/sandeepkv93/cadence/internal/model"
)

type Type string

const (
	TypeAdd       Type = "add"
	TypeBulk      Type = "bulk"
	TypeTo        Type = "to"
	TypeNew       Type = "new"
	TypeRename    Type = "rename"
	TypeDelete    Type = "delete"
	TypeReset     Type = "reset"
	TypeMode      Type = "mode"
	TypeCarry     Type = "carry"
	TypeRetention Type = "retention"
	TypeTemplate  Type = "template"
	TypeExport    Type = "export"
	TypeImport    Type = "import"
	TypeForget    Type = "forget"
	TypeFilter    Type = "filter"
)

// Names lists every command for completion and help.
var Names = []Type{
	TypeAdd, TypeBulk, TypeTo, TypeNew, TypeRename, TypeDelete, TypeReset, TypeMode,
	TypeCarry, TypeRetention, TypeTemplate, TypeExport, TypeImport, TypeForget, TypeFilter,
}

type ErrorCode string

const (
	ErrCodeEmptyInput      ErrorCode = "empty_input"
	ErrCodeUnknownCommand  ErrorCode = "unknown_command"
	ErrCodeInvalidArgument ErrorCode = "invalid_argument"
	ErrCodeHandlerMissing  ErrorCode = "handler_missing"
)

type CommandError struct {
	Code    ErrorCode
	Message string
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func invalid(format string, args ...any) error {
	return &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf(format, args...)}
}

type AddArgs struct {
	Line string
}

type BulkArgs struct {
	Lines []string
}

// ToArgs adds Line to the list called List, creating it when missing.
type ToArgs struct {
	List string
	Line string
}

type NameArgs struct {
	Name string
}

type Clock struct {
	Hour   int
	Minute int
}

// ModeArgs changes the cadence. A nil Clock keeps the list's time of day.
type ModeArgs struct {
	Mode    model.Mode
	Weekday time.Weekday
	Day     int
	Clock   *Clock
}

type CarryArgs struct {
	On bool
}

type RetentionArgs struct {
	Days int
}

type TemplateAction string

const (
	TemplateSave   TemplateAction = "save"
	TemplateUse    TemplateAction = "use"
	TemplateDelete TemplateAction = "delete"
)

type TemplateArgs struct {
	Action TemplateAction
	Name   string
}

type PathArgs struct {
	Path string
}

type ForgetArgs struct {
	SnapshotID string
}

// FilterArgs narrows the visible tasks. The zero value clears the filter.
type FilterArgs struct {
	Query    string
	Tag      string
	Priority model.Priority
	OnlyOpen bool
}

type Command struct {
	Type      Type
	Raw       string
	Add       *AddArgs
	Bulk      *BulkArgs
	To        *ToArgs
	Name      *NameArgs
	Mode      *ModeArgs
	Carry     *CarryArgs
	Retention *RetentionArgs
	Template  *TemplateArgs
	Path      *PathArgs
	Forget    *ForgetArgs
	Filter    *FilterArgs
}

func Parse(input string) (Command, error) {
	raw := strings.TrimSpace(input)
	if raw == "" {
		return Command{}, &CommandError{Code: ErrCodeEmptyInput, Message: "command is empty"}
	}
	if strings.HasPrefix(raw, "/") {
		raw = strings.TrimSpace(strings.TrimPrefix(raw, "/"))
	}
	if raw == "" {
		return Command{}, &CommandError{Code: ErrCodeEmptyInput, Message: "command is empty"}
	}

	parts := strings.Fields(raw)
	head := strings.ToLower(parts[0])
	args := parts[1:]
	rest := strings.TrimSpace(raw[len(parts[0]):])

	switch Type(head) {
	case TypeAdd:
		if rest == "" {
			return Command{}, invalid("add requires a task")
		}
		return Command{Type: TypeAdd, Raw: input, Add: &AddArgs{Line: rest}}, nil
	case TypeBulk:
		return parseBulk(input, rest)
	case TypeTo:
		return parseTo(input, rest)
	case TypeNew, TypeRename:
		if rest == "" {
			return Command{}, invalid("%s requires a name", head)
		}
		return Command{Type: Type(head), Raw: input, Name: &NameArgs{Name: rest}}, nil
	case TypeDelete, TypeReset:
		return Command{Type: Type(head), Raw: input}, nil
	case TypeMode:
		return parseMode(input, args)
	case TypeCarry:
		return parseCarry(input, args)
	case TypeRetention:
		return parseRetention(input, args)
	case TypeTemplate:
		return parseTemplate(input, args)
	case TypeExport, TypeImport:
		if rest == "" {
			return Command{}, invalid("%s requires a file path", head)
		}
		return Command{Type: Type(head), Raw: input, Path: &PathArgs{Path: rest}}, nil
	case TypeForget:
		if len(args) != 1 {
			return Command{}, invalid("forget requires a snapshot id")
		}
		return Command{Type: TypeForget, Raw: input, Forget: &ForgetArgs{SnapshotID: args[0]}}, nil
	case TypeFilter:
		return parseFilter(input, args)
	default:
		return Command{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unsupported command: %s", head)}
	}
}

// parseBulk splits on ";" so several tasks fit on one palette line.
func parseBulk(raw, rest string) (Command, error) {
	lines := make([]string, 0)
	for _, part := range strings.Split(rest, ";") {
		if part = strings.TrimSpace(part); part != "" {
			lines = append(lines, part)
		}
	}
	if len(lines) == 0 {
		return Command{}, invalid("bulk requires tasks separated by ;")
	}
	return Command{Type: TypeBulk, Raw: raw, Bulk: &BulkArgs{Lines: lines}}, nil
}

// parseTo accepts "to <list>: <task>", or "to <list> <task>" for one-word
// list names.
func parseTo(raw, rest string) (Command, error) {
	var list, line string
	if i := strings.Index(rest, ":"); i >= 0 {
		list, line = rest[:i], rest[i+1:]
	} else if fields := strings.Fields(rest); len(fields) > 1 {
		list, line = fields[0], strings.Join(fields[1:], " ")
	}
	list, line = strings.TrimSpace(list), strings.TrimSpace(line)
	if list == "" || line == "" {
		return Command{}, invalid("to requires a list and a task")
	}
	return Command{Type: TypeTo, Raw: raw, To: &ToArgs{List: list, Line: line}}, nil
}

func parseMode(raw string, args []string) (Command, error) {
	if len(args) == 0 {
		return Command{}, invalid("mode requires once, daily, weekly or monthly")
	}
	out := ModeArgs{Mode: model.Mode(strings.ToLower(args[0]))}
	rest := args[1:]
	switch out.Mode {
	case model.ModeOnce:
		if len(rest) > 0 {
			return Command{}, invalid("mode once takes no arguments")
		}
	case model.ModeDaily:
	case model.ModeWeekly:
		if len(rest) == 0 {
			return Command{}, invalid("mode weekly requires a weekday")
		}
		day, err := ParseWeekday(rest[0])
		if err != nil {
			return Command{}, err
		}
		out.Weekday = day
		rest = rest[1:]
	case model.ModeMonthly:
		if len(rest) == 0 {
			return Command{}, invalid("mode monthly requires a day of month")
		}
		day, err := strconv.Atoi(rest[0])
		if err != nil || day < 1 || day > 31 {
			return Command{}, invalid("day of month must be 1-31, got %q", rest[0])
		}
		out.Day = day
		rest = rest[1:]
	default:
		return Command{}, invalid("unknown mode %q", args[0])
	}
	if len(rest) > 1 {
		return Command{}, invalid("unexpected arguments: %s", strings.Join(rest[1:], " "))
	}
	if len(rest) == 1 {
		clock, err := ParseClock(rest[0])
		if err != nil {
			return Command{}, err
		}
		out.Clock = &clock
	}
	return Command{Type: TypeMode, Raw: raw, Mode: &out}, nil
}

// ParseClock reads HH:MM on a 24-hour clock.
func ParseClock(value string) (Clock, error) {
	hh, mm, ok := strings.Cut(value, ":")
	if !ok {
		return Clock{}, invalid("time must be HH:MM, got %q", value)
	}
	h, errH := strconv.Atoi(hh)
	m, errM := strconv.Atoi(mm)
	if errH != nil || errM != nil || h < 0 || h > 23 || m < 0 || m > 59 {
		return Clock{}, invalid("time must be HH:MM, got %q", value)
	}
	return Clock{Hour: h, Minute: m}, nil
}

// ParseWeekday accepts full or three-letter English names and 0-6 with
// Sunday as 0.
func ParseWeekday(value string) (time.Weekday, error) {
	v := strings.ToLower(value)
	if n, err := strconv.Atoi(v); err == nil && n >= 0 && n <= 6 {
		return time.Weekday(n), nil
	}
	for d := time.Sunday; d <= time.Saturday; d++ {
		name := strings.ToLower(d.String())
		if v == name || v == name[:3] {
			return d, nil
		}
	}
	return 0, invalid("unknown weekday %q", value)
}

func parseCarry(raw string, args []string) (Command, error) {
	if len(args) != 1 {
		return Command{}, invalid("carry requires on or off")
	}
	switch strings.ToLower(args[0]) {
	case "on", "yes", "true":
		return Command{Type: TypeCarry, Raw: raw, Carry: &CarryArgs{On: true}}, nil
	case "off", "no", "false":
		return Command{Type: TypeCarry, Raw: raw, Carry: &CarryArgs{On: false}}, nil
	default:
		return Command{}, invalid("carry requires on or off, got %q", args[0])
	}
}

func parseRetention(raw string, args []string) (Command, error) {
	if len(args) != 1 {
		return Command{}, invalid("retention requires a number of days")
	}
	days, err := strconv.Atoi(strings.TrimSuffix(strings.ToLower(args[0]), "d"))
	if err != nil || days < 0 {
		return Command{}, invalid("retention must be a non-negative number of days, got %q", args[0])
	}
	return Command{Type: TypeRetention, Raw: raw, Retention: &RetentionArgs{Days: days}}, nil
}

func parseTemplate(raw string, args []string) (Command, error) {
	if len(args) < 2 {
		return Command{}, invalid("template requires save, use or delete and a name")
	}
	action := TemplateAction(strings.ToLower(args[0]))
	switch action {
	case TemplateSave, TemplateUse, TemplateDelete:
	default:
		return Command{}, invalid("unknown template action %q", args[0])
	}
	name := strings.Join(args[1:], " ")
	return Command{Type: TypeTemplate, Raw: raw, Template: &TemplateArgs{Action: action, Name: name}}, nil
}

func parseFilter(raw string, args []string) (Command, error) {
	out := FilterArgs{}
	if len(args) == 1 && strings.EqualFold(args[0], "clear") {
		return Command{Type: TypeFilter, Raw: raw, Filter: &out}, nil
	}
	var words []string
	for _, arg := range args {
		lower := strings.ToLower(arg)
		switch {
		case lower == "open":
			out.OnlyOpen = true
		case strings.HasPrefix(lower, "#") && len(lower) > 1:
			out.Tag = lower[1:]
		case strings.HasPrefix(lower, "!"):
			p := model.ParseTaskLine(lower).Priority
			if !p.IsValid() || model.ParseTaskLine(lower).Title != "" {
				return Command{}, invalid("unknown priority %q", arg)
			}
			out.Priority = p
		default:
			words = append(words, arg)
		}
	}
	out.Query = strings.Join(words, " ")
	return Command{Type: TypeFilter, Raw: raw, Filter: &out}, nil
}
