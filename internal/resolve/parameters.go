/*
Copyright © 2025 Groundwork Contributors
SPDX-License-Identifier: BSD-3-Clause
*/

package resolve

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"
	"github.com/joho/godotenv"

	"github.com/worx/groundwork/internal/model"
	"github.com/worx/groundwork/internal/registry"
)

// cfnParameter is the CloudFormation CLI parameter file entry format
type cfnParameter struct {
	ParameterKey   string `json:"ParameterKey"`
	ParameterValue string `json:"ParameterValue"`
}

// pathData is the data available to parameter file path templates
type pathData struct {
	Project     string
	Environment string
}

// resolveParameters assembles the parameter map for a stack. Precedence,
// lowest to highest: environment parameters, parameter files in listed
// order, stack parameters. Output references are returned separately and
// are filled in from live stack outputs at deploy time.
func (r *StackResolver) resolveParameters(definition *registry.Definition) (map[string]string, map[string]model.OutputRef, error) {
	parameters := make(map[string]string)
	for name, value := range r.registry.Environment().Parameters {
		parameters[name] = value
	}

	for _, file := range definition.ParameterFiles {
		fileParameters, err := r.readParameterFile(file)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to read parameter file for stack %s: %w", definition.Key, err)
		}
		for name, value := range fileParameters {
			parameters[name] = value
		}
	}

	outputRefs := make(map[string]model.OutputRef)

	for name, value := range definition.Parameters {
		if literal, ok := value.Literal(); ok {
			parameters[name] = literal
			continue
		}

		switch value.ResolutionType {
		case "stack-output":
			ref, err := r.resolveOutputReference(definition, name, value.ResolutionConfig)
			if err != nil {
				return nil, nil, err
			}
			outputRefs[name] = ref
			delete(parameters, name)

		default:
			return nil, nil, fmt.Errorf("parameter %s of stack %s has unsupported resolution type %q",
				name, definition.Key, value.ResolutionType)
		}
	}

	if len(outputRefs) == 0 {
		outputRefs = nil
	}

	return parameters, outputRefs, nil
}

// resolveOutputReference validates a stack-output parameter and maps it to
// the physical name of the referenced stack. The referenced stack must be
// defined before the referencing stack.
func (r *StackResolver) resolveOutputReference(definition *registry.Definition, name string, cfg map[string]string) (model.OutputRef, error) {
	targetKey := cfg["stack"]
	outputKey := cfg["output"]
	if targetKey == "" || outputKey == "" {
		return model.OutputRef{}, fmt.Errorf("parameter %s of stack %s requires stack and output settings",
			name, definition.Key)
	}

	target, err := r.registry.Resolve(targetKey)
	if err != nil {
		return model.OutputRef{}, fmt.Errorf("parameter %s of stack %s: %w", name, definition.Key, err)
	}

	if !r.registry.Precedes(targetKey, definition.Key) {
		return model.OutputRef{}, fmt.Errorf("parameter %s of stack %s references %s which is not defined before it",
			name, definition.Key, targetKey)
	}

	return model.OutputRef{
		StackName: target.StackName,
		OutputKey: outputKey,
	}, nil
}

// readParameterFile reads and parses a single parameter file. Paths may be
// templated on the project and environment names. Files ending in .json use
// the CloudFormation CLI parameter format, everything else is parsed as
// dotenv KEY=value lines.
func (r *StackResolver) readParameterFile(path string) (map[string]string, error) {
	rendered, err := renderPath(path, pathData{
		Project:     r.registry.Project(),
		Environment: r.registry.Environment().Name,
	})
	if err != nil {
		return nil, fmt.Errorf("invalid parameter file path %s: %w", path, err)
	}

	body, err := r.files.ReadFile(rendered)
	if err != nil {
		return nil, err
	}

	if strings.HasSuffix(rendered, ".json") {
		return parseCFNParameters(rendered, body)
	}

	parameters, err := godotenv.Parse(strings.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to parse parameter file %s: %w", rendered, err)
	}
	return parameters, nil
}

// parseCFNParameters parses the CloudFormation CLI JSON parameter format:
// a list of {"ParameterKey": ..., "ParameterValue": ...} objects
func parseCFNParameters(path, body string) (map[string]string, error) {
	var entries []cfnParameter
	if err := json.Unmarshal([]byte(body), &entries); err != nil {
		return nil, fmt.Errorf("failed to parse parameter file %s: %w", path, err)
	}

	parameters := make(map[string]string, len(entries))
	for _, entry := range entries {
		if entry.ParameterKey == "" {
			return nil, fmt.Errorf("parameter file %s contains an entry without a ParameterKey", path)
		}
		parameters[entry.ParameterKey] = entry.ParameterValue
	}
	return parameters, nil
}

// renderPath executes a parameter file path as a template
func renderPath(path string, data pathData) (string, error) {
	tmpl, err := template.New("parameter-file").Funcs(sprig.TxtFuncMap()).Parse(path)
	if err != nil {
		return "", err
	}

	var builder strings.Builder
	if err := tmpl.Execute(&builder, data); err != nil {
		return "", err
	}

	return builder.String(), nil
}
