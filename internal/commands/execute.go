package commands

import "fmt"

type Result struct {
	Message string
}

type Handlers struct {
	Add       func(AddArgs) (Result, error)
	Bulk      func(BulkArgs) (Result, error)
	To        func(ToArgs) (Result, error)
	New       func(NameArgs) (Result, error)
	Rename    func(NameArgs) (Result, error)
	Delete    func() (Result, error)
	Reset     func() (Result, error)
	Mode      func(ModeArgs) (Result, error)
	Carry     func(CarryArgs) (Result, error)
	Retention func(RetentionArgs) (Result, error)
	Template  func(TemplateArgs) (Result, error)
	Export    func(PathArgs) (Result, error)
	Import    func(PathArgs) (Result, error)
	Forget    func(ForgetArgs) (Result, error)
	Filter    func(FilterArgs) (Result, error)
}

func Execute(cmd Command, handlers Handlers) (Result, error) {
	switch cmd.Type {
	case TypeAdd:
		return call(cmd.Type, handlers.Add, cmd.Add)
	case TypeBulk:
		return call(cmd.Type, handlers.Bulk, cmd.Bulk)
	case TypeTo:
		return call(cmd.Type, handlers.To, cmd.To)
	case TypeNew:
		return call(cmd.Type, handlers.New, cmd.Name)
	case TypeRename:
		return call(cmd.Type, handlers.Rename, cmd.Name)
	case TypeDelete:
		return callNoArgs(cmd.Type, handlers.Delete)
	case TypeReset:
		return callNoArgs(cmd.Type, handlers.Reset)
	case TypeMode:
		return call(cmd.Type, handlers.Mode, cmd.Mode)
	case TypeCarry:
		return call(cmd.Type, handlers.Carry, cmd.Carry)
	case TypeRetention:
		return call(cmd.Type, handlers.Retention, cmd.Retention)
	case TypeTemplate:
		return call(cmd.Type, handlers.Template, cmd.Template)
	case TypeExport:
		return call(cmd.Type, handlers.Export, cmd.Path)
	case TypeImport:
		return call(cmd.Type, handlers.Import, cmd.Path)
	case TypeForget:
		return call(cmd.Type, handlers.Forget, cmd.Forget)
	case TypeFilter:
		return call(cmd.Type, handlers.Filter, cmd.Filter)
	default:
		return Result{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unknown command type: %s", cmd.Type)}
	}
}

func call[A any](t Type, fn func(A) (Result, error), args *A) (Result, error) {
	if fn == nil {
		return Result{}, missing(t)
	}
	if args == nil {
		return Result{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("%s is missing its arguments", t)}
	}
	return fn(*args)
}

func callNoArgs(t Type, fn func() (Result, error)) (Result, error) {
	if fn == nil {
		return Result{}, missing(t)
	}
	return fn()
}

func missing(t Type) error {
	return &CommandError{Code: ErrCodeHandlerMissing, Message: fmt.Sprintf("%s handler not configured", t)}
}
