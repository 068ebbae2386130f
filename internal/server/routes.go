package server

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/qwertukg/boardyard/internal/board"
)

type createBoardRequest struct {
	Name         string `json:"name" binding:"required"`
	TargetBranch string `json:"targetBranch"`
	Description  string `json:"description"`
}

type createColumnRequest struct {
	BoardID uint   `json:"boardId" binding:"required"`
	Name    string `json:"name" binding:"required"`
	AgentID *uint  `json:"agentId"`
	Order   *int   `json:"order"`
}

type updateColumnRequest struct {
	Name       *string `json:"name"`
	AgentID    *uint   `json:"agentId"`
	Order      *int    `json:"order"`
	ClearAgent bool    `json:"clearAgent"`
}

type agentRequest struct {
	Name               string `json:"name" binding:"required"`
	RoleInstructions   string `json:"roleInstructions"`
	AcceptanceCriteria string `json:"acceptanceCriteria"`
	GlobalInstructions string `json:"globalInstructions"`
}

type createTaskRequest struct {
	BoardID     uint   `json:"boardId" binding:"required"`
	ColumnID    uint   `json:"columnId" binding:"required"`
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
}

type updateTaskRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
}

type moveTaskRequest struct {
	ColumnID uint `json:"columnId" binding:"required"`
}

type createMessageRequest struct {
	Author  string `json:"author" binding:"required"`
	Content string `json:"content" binding:"required"`
}

type settingsRequest struct {
	TargetBranch       string `json:"targetBranch"`
	GlobalInstructions string `json:"globalInstructions"`
}

// registerRoutes sets up the static page and the /api route set.
func registerRoutes(router *gin.Engine, store *board.Store) {
	router.GET("/", func(c *gin.Context) {
		page, err := assetsFS.ReadFile("assets/index.html")
		if err != nil {
			c.Status(http.StatusNotFound)
			return
		}
		c.Data(http.StatusOK, "text/html; charset=utf-8", page)
	})
	router.StaticFS("/static", http.FS(mustSub()))

	api := router.Group("/api")

	boards := api.Group("/boards")
	boards.GET("", handleListBoards(store))
	boards.POST("", handleCreateBoard(store))
	boards.GET("/:id", handleGetBoard(store))
	boards.PUT("/:id", handleUpdateBoard(store))
	boards.DELETE("/:id", handleDeleteBoard(store))
	boards.GET("/:id/columns", handleListColumns(store))
	boards.GET("/:id/tasks", handleListTasks(store))
	boards.GET("/:id/view", handleBoardView(store))

	columns := api.Group("/columns")
	columns.POST("", handleCreateColumn(store))
	columns.PUT("/:id", handleUpdateColumn(store))
	columns.DELETE("/:id", handleDeleteColumn(store))

	agents := api.Group("/agents")
	agents.GET("", handleListAgents(store))
	agents.POST("", handleCreateAgent(store))
	agents.PUT("/:id", handleUpdateAgent(store))
	agents.DELETE("/:id", handleDeleteAgent(store))

	tasks := api.Group("/tasks")
	tasks.POST("", handleCreateTask(store))
	tasks.GET("/:id", handleGetTask(store))
	tasks.PUT("/:id", handleUpdateTask(store))
	tasks.PUT("/:id/move", handleMoveTask(store))
	tasks.POST("/:id/messages", handleAddMessage(store))

	api.GET("/settings", handleGetSettings(store))
	api.PUT("/settings", handleUpdateSettings(store))
	api.GET("/git-events", handleGitEvents(store))
}

// idParam parses the :id path segment. A non-numeric id is a 400.
func idParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return uint(id), true
}

// respondErr maps the store's error taxonomy to HTTP statuses.
func respondErr(c *gin.Context, err error) {
	switch {
	case errors.Is(err, board.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, board.ErrInvalidOperation):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

func handleListBoards(store *board.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		boards, err := store.Boards()
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, boards)
	}
}

func handleCreateBoard(store *board.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req createBoardRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		b, err := store.CreateBoard(req.Name, req.TargetBranch, req.Description)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusCreated, b)
	}
}

func handleGetBoard(store *board.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c)
		if !ok {
			return
		}
		b, err := store.GetBoard(id)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, b)
	}
}

func handleUpdateBoard(store *board.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c)
		if !ok {
			return
		}
		var req createBoardRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		b, err := store.UpdateBoard(id, req.Name, req.TargetBranch, req.Description)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, b)
	}
}

func handleDeleteBoard(store *board.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c)
		if !ok {
			return
		}
		if err := store.DeleteBoard(id); err != nil {
			respondErr(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func handleListColumns(store *board.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c)
		if !ok {
			return
		}
		cols, err := store.Columns(id)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, cols)
	}
}

func handleListTasks(store *board.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c)
		if !ok {
			return
		}
		tasks, err := store.Tasks(id)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, tasks)
	}
}

func handleBoardView(store *board.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c)
		if !ok {
			return
		}
		view, err := store.BoardView(id)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, view)
	}
}

func handleCreateColumn(store *board.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req createColumnRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		col, err := store.CreateColumn(req.BoardID, req.Name, req.AgentID, req.Order)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusCreated, col)
	}
}

func handleUpdateColumn(store *board.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c)
		if !ok {
			return
		}
		var req updateColumnRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		col, err := store.UpdateColumn(id, board.ColumnUpdate{
			Name:       req.Name,
			Position:   req.Order,
			AgentID:    req.AgentID,
			ClearAgent: req.ClearAgent,
		})
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, col)
	}
}

func handleDeleteColumn(store *board.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c)
		if !ok {
			return
		}
		if err := store.DeleteColumn(id); err != nil {
			respondErr(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func handleListAgents(store *board.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		agents, err := store.Agents()
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, agents)
	}
}

func handleCreateAgent(store *board.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req agentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		a, err := store.CreateAgent(req.Name, req.RoleInstructions, req.AcceptanceCriteria, req.GlobalInstructions)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusCreated, a)
	}
}

func handleUpdateAgent(store *board.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c)
		if !ok {
			return
		}
		var req agentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		a, err := store.UpdateAgent(id, req.Name, req.RoleInstructions, req.AcceptanceCriteria, req.GlobalInstructions)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, a)
	}
}

func handleDeleteAgent(store *board.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c)
		if !ok {
			return
		}
		if err := store.DeleteAgent(id); err != nil {
			respondErr(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func handleCreateTask(store *board.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req createTaskRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		task, err := store.CreateTask(req.BoardID, req.ColumnID, req.Title, req.Description)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusCreated, task)
	}
}

func handleGetTask(store *board.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c)
		if !ok {
			return
		}
		task, err := store.GetTask(id)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, task)
	}
}

func handleUpdateTask(store *board.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c)
		if !ok {
			return
		}
		var req updateTaskRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		task, err := store.UpdateTask(id, req.Title, req.Description)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, task)
	}
}

func handleMoveTask(store *board.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c)
		if !ok {
			return
		}
		var req moveTaskRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		task, err := store.MoveTask(id, req.ColumnID)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, task)
	}
}

func handleAddMessage(store *board.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c)
		if !ok {
			return
		}
		var req createMessageRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		task, err := store.AddMessage(id, req.Author, req.Content)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, task)
	}
}

func handleGetSettings(store *board.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		st, err := store.Settings()
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, st)
	}
}

func handleUpdateSettings(store *board.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req settingsRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		st, err := store.UpdateSettings(req.TargetBranch, req.GlobalInstructions)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, st)
	}
}

func handleGitEvents(store *board.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		events, err := store.GitEvents()
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, events)
	}
}
