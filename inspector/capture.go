package inspector

// captureScript runs inside the page and serialises every element's
// geometry and the style properties the analyzers read. It returns a JSON
// string rather than a structured remote object so the Go side can decode it
// in one step.
//
// Text is truncated per element: the analyzers only need "has own text" and
// a short label, not page content.
const captureScript = `() => {
	const props = [
		'padding-top', 'padding-right', 'padding-bottom', 'padding-left',
		'color', 'background-color', 'border-color',
		'font-size', 'font-weight', 'text-align',
		'display', 'visibility', 'opacity', 'position', 'z-index'
	];
	const interactiveTags = ['a', 'button', 'input', 'select', 'textarea'];

	const all = Array.from(document.querySelectorAll('*'));
	const indexOf = new Map();
	all.forEach((el, i) => indexOf.set(el, i));

	const elements = all.map((el, i) => {
		const cs = window.getComputedStyle(el);
		const rect = el.getBoundingClientRect();

		let ownText = '';
		for (const node of el.childNodes) {
			if (node.nodeType === Node.TEXT_NODE) {
				ownText += node.textContent;
			}
		}

		const styles = {};
		for (const p of props) {
			styles[p] = cs.getPropertyValue(p);
		}

		const tag = el.tagName.toLowerCase();
		const role = el.getAttribute('role') || '';
		const cls = typeof el.className === 'string' ? el.className : '';

		return {
			index: i,
			parent: el.parentElement ? indexOf.get(el.parentElement) : -1,
			tag: tag,
			id: el.id || '',
			classes: cls.split(/\s+/).filter(Boolean),
			role: role,
			text: ownText.trim().slice(0, 120),
			childCount: el.children.length,
			box: { x: rect.x, y: rect.y, width: rect.width, height: rect.height },
			styles: styles,
			interactive: interactiveTags.includes(tag) ||
				el.onclick !== null ||
				el.hasAttribute('onclick') ||
				role === 'button' || role === 'link',
			visible: cs.display !== 'none' &&
				cs.visibility !== 'hidden' &&
				parseFloat(cs.opacity) !== 0 &&
				rect.width > 0 && rect.height > 0
		};
	});

	const nav = performance.getEntriesByType('navigation')[0];

	return JSON.stringify({
		scrollWidth: document.documentElement.scrollWidth,
		clientWidth: document.documentElement.clientWidth,
		renderTime: nav ? Math.max(0, nav.loadEventEnd - nav.fetchStart) : 0,
		elements: elements
	});
}`
