package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const (
	booleanFlagTypeName               = "bool"
	booleanFlagTrueLiteral            = "true"
	booleanFlagAcceptedValuesListing  = "true, false, yes, no, on, off, 1, 0"
	booleanFlagInvalidValueErrorLabel = "invalid boolean value"
	negatedFlagPrefix                 = "no-"
)

var booleanFlagLiterals = map[string]bool{
	"true":  true,
	"t":     true,
	"1":     true,
	"yes":   true,
	"y":     true,
	"on":    true,
	"false": false,
	"f":     false,
	"0":     false,
	"no":    false,
	"n":     false,
	"off":   false,
}

// booleanFlagValue accepts the literals above. A negated value writes the
// inverse into target, so --no-stdout and --stdout=false agree.
type booleanFlagValue struct {
	target  *bool
	flagKey string
	negated bool
}

func (value *booleanFlagValue) Set(input string) error {
	if value == nil || value.target == nil {
		return fmt.Errorf("%s %q", booleanFlagInvalidValueErrorLabel, input)
	}
	normalized := strings.ToLower(strings.TrimSpace(input))
	if normalized == "" {
		normalized = booleanFlagTrueLiteral
	}
	parsed, ok := booleanFlagLiterals[normalized]
	if !ok {
		return fmt.Errorf("%s %q for --%s; accepted values: %s", booleanFlagInvalidValueErrorLabel, input, value.flagKey, booleanFlagAcceptedValuesListing)
	}
	*value.target = parsed != value.negated
	return nil
}

func (value *booleanFlagValue) String() string {
	if value == nil || value.target == nil {
		return booleanFlagTrueLiteral
	}
	return strconv.FormatBool(*value.target != value.negated)
}

func (value *booleanFlagValue) Type() string {
	return booleanFlagTypeName
}

func registerBooleanFlag(flagSet *pflag.FlagSet, target *bool, name string, defaultValue bool, usage string) {
	if flagSet == nil || target == nil {
		return
	}
	*target = defaultValue
	flagSet.Var(&booleanFlagValue{target: target, flagKey: name}, name, usage)
	if lookup := flagSet.Lookup(name); lookup != nil {
		lookup.DefValue = strconv.FormatBool(defaultValue)
		lookup.NoOptDefVal = booleanFlagTrueLiteral
	}
}

// registerNegatedBooleanFlag adds --no-<name> writing the inverse into the
// target of an already registered --<name>.
func registerNegatedBooleanFlag(flagSet *pflag.FlagSet, target *bool, name string, usage string) {
	if flagSet == nil || target == nil {
		return
	}
	negatedName := negatedFlagPrefix + name
	flagSet.Var(&booleanFlagValue{target: target, flagKey: negatedName, negated: true}, negatedName, usage)
	if lookup := flagSet.Lookup(negatedName); lookup != nil {
		lookup.DefValue = strconv.FormatBool(!*target)
		lookup.NoOptDefVal = booleanFlagTrueLiteral
	}
}

// registerBooleanAlias adds another name for the target of an already
// registered flag.
func registerBooleanAlias(flagSet *pflag.FlagSet, target *bool, alias string, usage string) {
	if flagSet == nil || target == nil {
		return
	}
	flagSet.Var(&booleanFlagValue{target: target, flagKey: alias}, alias, usage)
	if lookup := flagSet.Lookup(alias); lookup != nil {
		lookup.DefValue = strconv.FormatBool(*target)
		lookup.NoOptDefVal = booleanFlagTrueLiteral
	}
}

// anyFlagChanged reports whether the user set any of names explicitly.
func anyFlagChanged(flagSet *pflag.FlagSet, names ...string) bool {
	for _, name := range names {
		if flagSet.Changed(name) {
			return true
		}
	}
	return false
}

// normalizeBooleanFlagArguments rewrites "--flag value" into "--flag=value"
// for boolean flags so that a following literal is not taken as a path.
func normalizeBooleanFlagArguments(command *cobra.Command, arguments []string) []string {
	if command == nil || len(arguments) == 0 {
		return arguments
	}
	booleanFlags := map[string]struct{}{}
	collectBooleanFlagNames(command, booleanFlags)
	if len(booleanFlags) == 0 {
		return arguments
	}
	normalized := make([]string, 0, len(arguments))
	index := 0
	for index < len(arguments) {
		currentArgument := arguments[index]
		if currentArgument == "--" {
			normalized = append(normalized, arguments[index:]...)
			break
		}
		if strings.HasPrefix(currentArgument, "--") && !strings.Contains(currentArgument, "=") {
			flagName := strings.TrimPrefix(currentArgument, "--")
			if _, exists := booleanFlags[flagName]; exists && index+1 < len(arguments) {
				nextArgument := arguments[index+1]
				if !strings.HasPrefix(nextArgument, "-") {
					literal := strings.ToLower(strings.TrimSpace(nextArgument))
					if _, valid := booleanFlagLiterals[literal]; valid {
						normalized = append(normalized, fmt.Sprintf("--%s=%s", flagName, nextArgument))
						index += 2
						continue
					}
				}
			}
		}
		normalized = append(normalized, currentArgument)
		index++
	}
	return normalized
}

func collectBooleanFlagNames(command *cobra.Command, target map[string]struct{}) {
	if command == nil || target == nil {
		return
	}
	visit := func(flagSet *pflag.FlagSet) {
		if flagSet == nil {
			return
		}
		flagSet.VisitAll(func(flag *pflag.Flag) {
			if flag == nil || flag.Value == nil {
				return
			}
			if flag.Value.Type() == booleanFlagTypeName {
				target[flag.Name] = struct{}{}
			}
		})
	}
	visit(command.PersistentFlags())
	visit(command.Flags())
	for _, child := range command.Commands() {
		collectBooleanFlagNames(child, target)
	}
}
