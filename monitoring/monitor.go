// Package monitoring turns the operator catalog into a web server, so that
// operators can be browsed and run from outside the process.
package monitoring

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"os"
	"runtime/pprof"
	"strconv"
	"time"

	"github.com/google/pprof/profile"
	"github.com/gorilla/mux"
	"github.com/pkg/browser"
	"github.com/shirou/gopsutil/process"
	"github.com/syifan/goseth"

	"github.com/sarchlab/marbles/catalog"
	"github.com/sarchlab/marbles/diagram"
	"github.com/sarchlab/marbles/experiment"
	"github.com/sarchlab/marbles/stream"
)

// DefaultWidth is the width of the diagrams served when none is set.
const DefaultWidth = 61

// Monitor serves the operator catalog and runs operators on request.
type Monitor struct {
	portNumber  int
	width       int
	openBrowser bool
	builder     experiment.RunnerBuilder

	stats  RunStats
	server *http.Server
}

// NewMonitor creates a new Monitor
func NewMonitor() *Monitor {
	return &Monitor{
		width:   DefaultWidth,
		builder: experiment.MakeRunnerBuilder(),
	}
}

// WithPortNumber sets the port number of the monitor.
func (m *Monitor) WithPortNumber(portNumber int) *Monitor {
	if portNumber < 1000 {
		fmt.Fprintf(os.Stderr,
			"Port number %d is assigned to the monitoring server, "+
				"which is not allowed. Using a random port instead.\n", portNumber)
		portNumber = 0
	}

	m.portNumber = portNumber

	return m
}

// WithWidth sets the width of the diagrams that the monitor draws.
func (m *Monitor) WithWidth(width int) *Monitor {
	m.width = width
	return m
}

// WithRunnerBuilder sets how the runs requested through the monitor are
// configured.
func (m *Monitor) WithRunnerBuilder(b experiment.RunnerBuilder) *Monitor {
	m.builder = b
	return m
}

// WithBrowser opens the monitor in a web browser once the server starts.
func (m *Monitor) WithBrowser() *Monitor {
	m.openBrowser = true
	return m
}

// Stats returns the counters of the runs served so far.
func (m *Monitor) Stats() *RunStats {
	return &m.stats
}

// Handler returns the routes of the monitor.
func (m *Monitor) Handler() http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/api/operators", m.listOperators).Methods(http.MethodGet)
	r.HandleFunc("/api/operator/{name}", m.operatorDetails).
		Methods(http.MethodGet)
	r.HandleFunc("/api/run/{name}", m.run).Methods(http.MethodPost)
	r.HandleFunc("/api/progress", m.progress).Methods(http.MethodGet)
	r.HandleFunc("/api/resource", m.listResources).Methods(http.MethodGet)
	r.HandleFunc("/api/profile", m.collectProfile).Methods(http.MethodGet)
	r.HandleFunc("/", m.index).Methods(http.MethodGet)

	return r
}

// StartServer starts the monitor as a web server. It returns the address the
// server listens on.
func (m *Monitor) StartServer() string {
	actualPort := ":0"
	if m.portNumber > 1000 {
		actualPort = ":" + strconv.Itoa(m.portNumber)
	}

	listener, err := net.Listen("tcp", actualPort)
	dieOnErr(err)

	url := fmt.Sprintf("http://localhost:%d",
		listener.Addr().(*net.TCPAddr).Port)
	fmt.Fprintf(os.Stderr, "Monitoring operators with %s\n", url)

	m.server = &http.Server{
		Handler:           m.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		err := m.server.Serve(listener)
		if !errors.Is(err, http.ErrServerClosed) {
			dieOnErr(err)
		}
	}()

	if m.openBrowser {
		if err := browser.OpenURL(url); err != nil {
			log.Printf("cannot open browser: %v", err)
		}
	}

	return url
}

// StopServer shuts the web server down.
func (m *Monitor) StopServer(ctx context.Context) error {
	if m.server == nil {
		return nil
	}

	return m.server.Shutdown(ctx)
}

type operatorSummary struct {
	Name             string `json:"name"`
	Description      string `json:"description"`
	DocumentationURL string `json:"documentation_url"`
	Arity            int    `json:"arity"`
}

type collectionRsp struct {
	Name      string            `json:"name"`
	Operators []operatorSummary `json:"operators"`
}

func (m *Monitor) listOperators(w http.ResponseWriter, _ *http.Request) {
	var rsp []collectionRsp

	for _, c := range catalog.Collections() {
		entry := collectionRsp{Name: c.Name}
		for _, op := range c.Operators {
			entry.Operators = append(entry.Operators, operatorSummary{
				Name:             op.Name,
				Description:      op.Description,
				DocumentationURL: op.DocumentationURL,
				Arity:            op.Arity(),
			})
		}

		rsp = append(rsp, entry)
	}

	writeJSON(w, rsp)
}

// operatorState is the part of an operator that is shown in its details.
type operatorState struct {
	Name             string
	Description      string
	DocumentationURL string
	Inputs           []stream.Lane
}

func (m *Monitor) operatorDetails(w http.ResponseWriter, r *http.Request) {
	op := m.findOperatorOr404(w, mux.Vars(r)["name"])
	if op == nil {
		return
	}

	state := &operatorState{
		Name:             op.Name,
		Description:      op.Description,
		DocumentationURL: op.DocumentationURL,
		Inputs:           op.Inputs,
	}

	serializer := goseth.NewSerializer()
	serializer.SetRoot(state)
	serializer.SetMaxDepth(3)
	err := serializer.Serialize(w)
	dieOnErr(err)
}

type runReq struct {
	Inputs []stream.Lane `json:"inputs"`
}

type runRsp struct {
	experiment.Result
	Diagram string `json:"diagram"`
}

func (m *Monitor) run(w http.ResponseWriter, r *http.Request) {
	op := m.findOperatorOr404(w, mux.Vars(r)["name"])
	if op == nil {
		return
	}

	req := runReq{}
	err := json.NewDecoder(r.Body).Decode(&req)
	if err != nil && !errors.Is(err, io.EOF) {
		http.Error(w, "Error: "+err.Error(), http.StatusBadRequest)
		return
	}

	session := experiment.NewSession(op, m.builder)
	if req.Inputs != nil {
		if err := session.SetInputs(req.Inputs); err != nil {
			http.Error(w, "Error: "+err.Error(), http.StatusBadRequest)
			return
		}
	}

	m.stats.start()
	result, err := session.Update(r.Context())
	if err != nil {
		m.stats.abort()
		http.Error(w, "Error: "+err.Error(), http.StatusServiceUnavailable)
		return
	}
	m.stats.finish(result)

	writeJSON(w, runRsp{
		Result: result,
		Diagram: diagram.RenderOperator(
			op, session.Inputs(), result.Events, m.width),
	})
}

func (m *Monitor) progress(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, m.stats.Snapshot())
}

// index draws every operator of the catalog on its example inputs.
func (m *Monitor) index(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")

	for _, c := range catalog.Collections() {
		fmt.Fprintf(w, "== %s ==\n\n", c.Name)

		for _, op := range c.Operators {
			session := experiment.NewSession(op, m.builder)

			result, err := session.Update(r.Context())
			if err != nil {
				return
			}

			fmt.Fprintf(w, "%s: %s\n", op.Name, op.Description)
			fmt.Fprintln(w, diagram.RenderOperator(
				op, session.Inputs(), result.Events, m.width))
		}
	}
}

func (m *Monitor) findOperatorOr404(
	w http.ResponseWriter,
	name string,
) *experiment.Operator {
	op, ok := catalog.Find(name)
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprintf(w, "Operator %s not found", name)
		return nil
	}

	return op
}

type resourceRsp struct {
	CPUPercent float64 `json:"cpu_percent"`
	MemorySize uint64  `json:"memory_size"`
}

func (m *Monitor) listResources(w http.ResponseWriter, _ *http.Request) {
	pid := os.Getpid()
	process, err := process.NewProcess(int32(pid))
	dieOnErr(err)

	cpuPercent, err := process.CPUPercent()
	dieOnErr(err)

	memorySize, err := process.MemoryInfo()
	dieOnErr(err)

	writeJSON(w, resourceRsp{
		CPUPercent: cpuPercent,
		MemorySize: memorySize.RSS,
	})
}

func (m *Monitor) collectProfile(w http.ResponseWriter, _ *http.Request) {
	buf := bytes.NewBuffer(nil)

	err := pprof.StartCPUProfile(buf)
	if err != nil {
		http.Error(w, "Error: "+err.Error(), http.StatusConflict)
		return
	}

	time.Sleep(time.Second)

	pprof.StopCPUProfile()

	prof, err := profile.ParseData(buf.Bytes())
	dieOnErr(err)

	writeJSON(w, prof)
}

func writeJSON(w http.ResponseWriter, v any) {
	bytes, err := json.Marshal(v)
	dieOnErr(err)

	w.Header().Set("Content-Type", "application/json")
	_, err = w.Write(bytes)
	dieOnErr(err)
}

func dieOnErr(err error) {
	if err != nil {
		log.Panic(err)
	}
}
