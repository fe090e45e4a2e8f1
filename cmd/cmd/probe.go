// Copyright (c) 2025 Stefano Scafiti
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.
package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/text/width"

	"github.com/ostafen/blkprobe/internal/diagnostics"
	"github.com/ostafen/blkprobe/internal/disk"
	"github.com/ostafen/blkprobe/internal/probe"
	"github.com/ostafen/blkprobe/pkg/util/format"
)

func DefineProbeCommand() *cobra.Command {
	var (
		offsetFlag   string
		logLevelFlag string
		filterTypes  []string
		invertFilter bool
		filterUsage  string
		request      []string
		all          bool
	)

	cmd := &cobra.Command{
		Use:   "probe <device-or-image>",
		Short: "Walk the format registry against a device or disk image, printing every match",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			level, err := diagnostics.ParseLevel(logLevelFlag)
			if err != nil {
				return err
			}
			diagnostics.NewLogger(level)

			offset, err := format.ParseBytes(offsetFlag)
			if err != nil {
				return fmt.Errorf("--offset: %w", err)
			}

			info, err := disk.Open(disk.NormalizeVolumePath(args[0]))
			if err != nil {
				return err
			}
			defer info.Close()

			if offset > info.Size {
				return fmt.Errorf("--offset %d is past the end of %s (%s)", offset, info.Path, format.FormatBytes(info.Size))
			}

			session := probe.NewSession()
			session.SetDevice(info, offset, info.Size-offset)

			if len(request) > 0 {
				mask, err := parseRequestMask(request)
				if err != nil {
					return err
				}
				session.SetRequest(mask)
			}

			if f, err := buildFilter(filterTypes, invertFilter, filterUsage); err != nil {
				return err
			} else if f != nil {
				session.SetFilter(f)
			}

			return runProbeLoop(cmd, session, all)
		},
	}

	cmd.Flags().StringVar(&offsetFlag, "offset", "0", "byte offset into the device to start probing from (accepts KB/MB/GB suffixes)")
	cmd.Flags().StringVar(&logLevelFlag, "log-level", "info", "log level: debug, info, warn, error")
	cmd.Flags().StringSliceVar(&filterTypes, "filter-type", nil, "restrict probing to these format names")
	cmd.Flags().BoolVar(&invertFilter, "invert-filter", false, "invert the --filter-type/--filter-usage selection")
	cmd.Flags().StringVar(&filterUsage, "filter-usage", "", "restrict probing to a usage class: filesystem, raid, crypto, other")
	cmd.Flags().StringSliceVar(&request, "request", nil, "attributes to report (default all): type, usage, version, label, label_raw, uuid, uuid_raw")
	cmd.Flags().BoolVar(&all, "all", false, "keep stepping past the first match until the registry is exhausted")

	return cmd
}

func buildFilter(types []string, invert bool, usage string) (*probe.Filter, error) {
	var f *probe.Filter

	switch {
	case len(types) > 0:
		f = probe.FilterTypes(probe.ONLYIN, types)
	case usage != "":
		mask, err := parseUsageMask(usage)
		if err != nil {
			return nil, err
		}
		f = probe.FilterUsage(probe.ONLYIN, mask)
	default:
		return nil, nil
	}

	if invert {
		f.Invert()
	}
	return f, nil
}

func parseRequestMask(names []string) (probe.RequestFlags, error) {
	var mask probe.RequestFlags
	for _, name := range names {
		switch strings.ToLower(name) {
		case "type":
			mask |= probe.ReqType
		case "usage":
			mask |= probe.ReqUsage
		case "version":
			mask |= probe.ReqVersion
		case "label":
			mask |= probe.ReqLabel
		case "label_raw":
			mask |= probe.ReqLabelRaw
		case "uuid":
			mask |= probe.ReqUUID
		case "uuid_raw":
			mask |= probe.ReqUUIDRaw
		default:
			return 0, fmt.Errorf("unknown attribute %q", name)
		}
	}
	return mask, nil
}

func parseUsageMask(name string) (probe.Usage, error) {
	switch strings.ToLower(name) {
	case "filesystem":
		return probe.UsageFilesystem, nil
	case "raid":
		return probe.UsageRAID, nil
	case "crypto":
		return probe.UsageCrypto, nil
	case "other":
		return probe.UsageOther, nil
	default:
		return 0, fmt.Errorf("unknown usage class %q", name)
	}
}

func runProbeLoop(cmd *cobra.Command, session *probe.Session, all bool) error {
	found := false
	for {
		result, err := session.Step()
		if err != nil {
			return err
		}
		if result == probe.Exhausted {
			break
		}
		found = true
		printMatch(cmd, session)
		if !all {
			break
		}
	}
	if !found {
		fmt.Fprintln(cmd.OutOrStdout(), "no match")
	}
	return nil
}

func printMatch(cmd *cobra.Command, session *probe.Session) {
	out := cmd.OutOrStdout()

	maxWidth := 0
	for i := 0; i < session.NumValues(); i++ {
		v, err := session.GetValue(i)
		if err != nil {
			continue
		}
		if w := displayWidth(v.String()); w > maxWidth {
			maxWidth = w
		}
	}

	for i := 0; i < session.NumValues(); i++ {
		v, err := session.GetValue(i)
		if err != nil {
			continue
		}
		fmt.Fprintf(out, "| %-10s | %s |\n", v.Name, padDisplay(v.String(), maxWidth))
	}
	fmt.Fprintln(out)
}

// padDisplay right-pads text to at least minWidth terminal cells, measuring
// East-Asian wide characters as two cells so a CJK LABEL value doesn't throw
// off column alignment the way a naive len(text) would.
func padDisplay(text string, minWidth int) string {
	w := displayWidth(text)
	if w >= minWidth {
		return text
	}
	return text + strings.Repeat(" ", minWidth-w)
}

func displayWidth(s string) int {
	n := 0
	for _, r := range s {
		switch width.LookupRune(r).Kind() {
		case width.EastAsianWide, width.EastAsianFullwidth:
			n += 2
		default:
			n++
		}
	}
	return n
}
