package preload

// Scripts evaluated in the page. Each returns a JSON-serializable value
// the waiter polls on. The container selectors here track the selector
// lists in pkg/strategy; the platform has shipped four editor markups
// and any of them can appear on a given post.

const readyStateScript = `document.readyState`

// jQuery idle plus load-event completion via the Performance API.
const scriptLibrariesIdleScript = `(function() {
	if (typeof jQuery !== 'undefined' && jQuery.active > 0) {
		return false;
	}
	var loadComplete = document.readyState === 'complete';
	if (typeof window.performance !== 'undefined' && window.performance.timing) {
		loadComplete = loadComplete && window.performance.timing.loadEventEnd > 0;
	}
	return loadComplete;
})()`

// At least one known content container, or 5 seconds since navigation.
const editorMarkersScript = `(function() {
	var se3 = document.querySelector('.se-main-container') !== null;
	var se2 = document.querySelector('.ContentRenderer, #postViewArea') !== null;
	var general = document.querySelector('#content-area, #tbody') !== null;
	return se3 || se2 || general ||
		(Date.now() - window.performance.timing.navigationStart) > 5000;
})()`

// No resource finished loading within the last second.
const networkIdleScript = `(function() {
	if (typeof window.performance === 'undefined' || !window.performance.getEntriesByType) {
		return true;
	}
	var resources = window.performance.getEntriesByType('resource');
	var now = window.performance.now();
	var recent = resources.filter(function(r) {
		return r.responseEnd > (now - 1000);
	});
	return recent.length === 0;
})()`

const scrollInfoScript = `(function() {
	return {
		originalY: window.pageYOffset,
		originalX: window.pageXOffset,
		bodyHeight: document.body.scrollHeight,
		windowHeight: window.innerHeight,
		bodyWidth: document.body.scrollWidth,
		windowWidth: window.innerWidth
	};
})()`

// Platform-specific and generic lazy-image activation: copy the
// data-src family of attributes into src so images load without
// intersection callbacks firing.
const lazyImageTriggerScript = `(function() {
	var se3Images = document.querySelectorAll('.se-image-resource[data-src]');
	se3Images.forEach(function(img) {
		if (img.dataset.src && !img.src) { img.src = img.dataset.src; }
	});
	var se2Images = document.querySelectorAll('img[data-lazy-src]');
	se2Images.forEach(function(img) {
		if (img.dataset.lazySrc && !img.src) { img.src = img.dataset.lazySrc; }
	});
	var lazyImages = document.querySelectorAll('img[data-original], img[loading="lazy"]');
	lazyImages.forEach(function(img) {
		if (img.dataset.original && !img.src) { img.src = img.dataset.original; }
	});
	return true;
})()`

// A container counts as populated, not merely attached, when it holds
// real inner markup.
const dynamicContentLoadedScript = `(function() {
	var se3 = document.querySelector('.se-main-container');
	if (se3) {
		return se3.querySelectorAll('.se-module-text, .se-text-paragraph').length > 0;
	}
	var se2 = document.querySelector('.ContentRenderer, #postViewArea');
	if (se2) {
		return se2.innerHTML.length > 100;
	}
	var general = document.querySelector('#content-area, #tbody');
	if (general) {
		return general.innerHTML.length > 100;
	}
	return false;
})()`
