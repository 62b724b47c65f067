package chartjs

const helpersJS = `
(function(){
  function series(c, name) {
    if (!c || !Array.isArray(c.data)) return null;
    for (const s of c.data) {
      if (s && s.name === name) return s;
    }
    return null;
  }

  function points(c) {
    if (!c || !Array.isArray(c.data)) return [];
    const out = [];
    for (const s of c.data) {
      if (s && Array.isArray(s.dataPoints)) {
        for (const p of s.dataPoints) out.push(p);
      }
    }
    return out;
  }

  function setAxis(c, axis, min, max) {
    if (!c) return c;
    const key = (axis === "y") ? "axisY" : "axisX";
    c[key] = c[key] || {};
    if (typeof min === "number") c[key].minimum = min;
    if (typeof max === "number") c[key].maximum = max;
    return c;
  }

  function dropEmpty(c) {
    if (!c || !Array.isArray(c.data)) return c;
    c.data = c.data.filter(s => s && Array.isArray(s.dataPoints) && s.dataPoints.length > 0);
    return c;
  }

  globalThis.charts = { series, points, setAxis, dropEmpty };
})();
`
