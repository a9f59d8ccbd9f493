package errors

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category Category
	Message  string
	Detail   string
}

// Configuration errors (E100-E119).
const (
	CodeInvalidItemSelector   = "E100"
	CodeInvalidHandleSelector = "E101"
	CodeConfigNotFound        = "E110"
	CodeConfigParse           = "E111"
	CodeConfigInvalid         = "E112"
)

// Protocol errors (E200-E219).
const (
	CodeMalformedFrame   = "E200"
	CodeUnknownEvent     = "E201"
	CodeLimitExceeded    = "E202"
	CodeUnknownElement   = "E203"
	CodeUnsupportedFrame = "E204"
)

// Scenario errors (E300-E319).
const (
	CodeScenarioParse       = "E300"
	CodeScenarioStep        = "E301"
	CodeOrderMismatch       = "E302"
	CodeReorderMismatch     = "E303"
	CodeScenarioUnreachable = "E304"
	CodeScenarioLayout      = "E305"
	CodeStateMismatch       = "E306"
)

// CLI errors (E400-E419).
const (
	CodeMissingArgument = "E400"
	CodeServerFailed    = "E401"
)

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Configuration Errors (E100-E119)
	// ============================================

	CodeInvalidItemSelector: {
		Category: CategoryConfig,
		Message:  "Invalid item selector",
		Detail:   "The items option must be a valid CSS selector.",
	},
	CodeInvalidHandleSelector: {
		Category: CategoryConfig,
		Message:  "Invalid handle selector",
		Detail:   "The handle option must be empty or a valid CSS selector.",
	},
	CodeConfigNotFound: {
		Category: CategoryConfig,
		Message:  "Configuration file not found",
		Detail:   "The sortable.json file could not be read.",
	},
	CodeConfigParse: {
		Category: CategoryConfig,
		Message:  "Configuration parse error",
		Detail:   "sortable.json is not valid JSON.",
	},
	CodeConfigInvalid: {
		Category: CategoryConfig,
		Message:  "Invalid configuration value",
		Detail:   "A configuration value is out of range or inconsistent.",
	},

	// ============================================
	// Protocol Errors (E200-E219)
	// ============================================

	CodeMalformedFrame: {
		Category: CategoryProtocol,
		Message:  "Malformed frame",
		Detail:   "The frame header or payload could not be decoded.",
	},
	CodeUnknownEvent: {
		Category: CategoryProtocol,
		Message:  "Unknown event type",
		Detail:   "The client sent an event type the server does not handle.",
	},
	CodeLimitExceeded: {
		Category: CategoryProtocol,
		Message:  "Protocol limit exceeded",
		Detail:   "A frame declared more data than the decoder allows.",
	},
	CodeUnknownElement: {
		Category: CategoryProtocol,
		Message:  "Unknown element",
		Detail:   "The event references an HID that is not in the session's document.",
	},
	CodeUnsupportedFrame: {
		Category: CategoryProtocol,
		Message:  "Unsupported frame type",
		Detail:   "The peer sent a frame type that is not valid in this direction.",
	},

	// ============================================
	// Scenario Errors (E300-E319)
	// ============================================

	CodeScenarioParse: {
		Category: CategoryScenario,
		Message:  "Scenario parse error",
		Detail:   "The scenario is not valid YAML or JSON.",
	},
	CodeScenarioStep: {
		Category: CategoryScenario,
		Message:  "Invalid scenario step",
		Detail:   "Each step needs exactly one known action with valid arguments.",
	},
	CodeOrderMismatch: {
		Category: CategoryScenario,
		Message:  "Final order mismatch",
		Detail:   "The list order after replay differs from the expected order.",
	},
	CodeReorderMismatch: {
		Category: CategoryScenario,
		Message:  "Reorder notifications mismatch",
		Detail:   "The reorder notifications emitted during replay differ from the expected ones.",
	},
	CodeScenarioUnreachable: {
		Category: CategoryScenario,
		Message:  "Scenario source unreachable",
		Detail:   "The scenario could not be read from disk or object storage.",
	},
	CodeScenarioLayout: {
		Category: CategoryScenario,
		Message:  "Invalid scenario layout",
		Detail:   "Item sizes must be positive and the axis must be vertical or horizontal.",
	},
	CodeStateMismatch: {
		Category: CategoryScenario,
		Message:  "Final drag state mismatch",
		Detail:   "The controller ended in a different state than expected.",
	},

	// ============================================
	// CLI Errors (E400-E419)
	// ============================================

	CodeMissingArgument: {
		Category: CategoryCLI,
		Message:  "Missing argument",
		Detail:   "The command needs at least one argument.",
	},
	CodeServerFailed: {
		Category: CategoryCLI,
		Message:  "Server failed",
		Detail:   "The HTTP server stopped with an error.",
	},
}

// GetAllCodes returns all registered error codes.
func GetAllCodes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	return codes
}

// GetTemplate returns the template for an error code.
func GetTemplate(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}

// Register adds a new error template to the registry.
func Register(code string, template ErrorTemplate) {
	registry[code] = template
}
