package bot

import "strings"

// Command is one of the commands the bot understands.
type Command int

const (
	CommandUnknown Command = iota
	CommandStart
	CommandCatalog
	CommandBuy
	CommandMyOrders
	CommandAI
	CommandHelp
)

var commandNames = map[string]Command{
	"start":    CommandStart,
	"catalog":  CommandCatalog,
	"buy":      CommandBuy,
	"myorders": CommandMyOrders,
	"orders":   CommandMyOrders,
	"ai":       CommandAI,
	"ask":      CommandAI,
	"help":     CommandHelp,
}

func (c Command) String() string {
	switch c {
	case CommandStart:
		return "start"
	case CommandCatalog:
		return "catalog"
	case CommandBuy:
		return "buy"
	case CommandMyOrders:
		return "myorders"
	case CommandAI:
		return "ai"
	case CommandHelp:
		return "help"
	default:
		return "unknown"
	}
}

// Parse splits "/buy@shop_bot SKU-1 2" into the command and "SKU-1 2".
// The leading slash is optional and the name is case-insensitive.
func Parse(text string) (Command, string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return CommandUnknown, ""
	}

	head, args, _ := strings.Cut(text, " ")
	args = strings.TrimSpace(args)

	name := strings.TrimPrefix(head, "/")
	// /cmd@botname
	if i := strings.IndexByte(name, '@'); i >= 0 {
		name = name[:i]
	}

	cmd, ok := commandNames[strings.ToLower(name)]
	if !ok {
		return CommandUnknown, text
	}
	return cmd, args
}
