package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/iulianpascalau/status-page/services/statuspage/cwmetrics"
	"github.com/iulianpascalau/status-page/services/statuspage/metricexpr"
)

func (s *server) handleGetRegions(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"regions":       cwmetrics.Regions(),
		"defaultRegion": s.defaultRegion,
	})
}

// handleGetMetrics returns the namespaces of a region and, when a namespace is given, its metric expressions
func (s *server) handleGetMetrics(c *gin.Context) {
	region, err := s.resolveRegion(c.Query("region"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	metrics, err := s.catalog.Metrics(c.Request.Context(), region.ID)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{
			"error":  err.Error(),
			"region": region,
			"state":  s.catalog.State(region.ID),
		})
		return
	}

	namespace := c.Query("namespace")
	expressions := make([]string, 0)
	if len(namespace) > 0 {
		expressions = metricexpr.Expressions(metrics, namespace)
	}

	c.JSON(http.StatusOK, gin.H{
		"region":      region,
		"state":       s.catalog.State(region.ID),
		"namespaces":  metricexpr.Namespaces(metrics),
		"namespace":   namespace,
		"expressions": expressions,
		"statistics":  metricexpr.StatisticsList(),
	})
}

func (s *server) handleGetSelection(c *gin.Context) {
	props, err := s.storage.GetMonitoringProps(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if props == nil {
		c.JSON(http.StatusOK, gin.H{
			"props":      nil,
			"region":     s.defaultRegion,
			"expression": "",
			"statistics": metricexpr.DefaultStatistics,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"props":      props,
		"region":     props.Region,
		"expression": metricexpr.ExpressionFromProps(*props),
		"statistics": props.Statistics,
	})
}

// handleSaveSelection decodes the committed metric expression into the monitoring service properties
func (s *server) handleSaveSelection(c *gin.Context) {
	var selection metricexpr.Selection
	if err := c.ShouldBindJSON(&selection); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	region, err := s.resolveRegion(selection.Region)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	selection.Region = region.ID

	props, err := metricexpr.BuildSelection(selection)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err = s.storage.SaveMonitoringProps(c.Request.Context(), props)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	log.Info("monitoring selection saved", "region", props.Region, "namespace", props.Namespace, "metric", props.MetricName)
	c.JSON(http.StatusOK, gin.H{
		"props":      props,
		"expression": metricexpr.ExpressionFromProps(props),
	})
}

func (s *server) resolveRegion(idOrName string) (cwmetrics.Region, error) {
	if len(idOrName) == 0 {
		return cwmetrics.RegionByID(s.defaultRegion)
	}

	return cwmetrics.ResolveRegion(idOrName)
}
